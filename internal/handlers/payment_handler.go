package handlers

import (
	"fmt"
	"net/http"

	"github.com/aayushkarn/khabari/backend/internal/gateway"
	"github.com/aayushkarn/khabari/backend/internal/middleware"
	"github.com/aayushkarn/khabari/backend/internal/models"
	"github.com/aayushkarn/khabari/backend/internal/repositories"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// PaymentHandler bridges support payments to the external gateway
type PaymentHandler struct {
	paymentRepository repositories.PaymentRepository
	userRepository    repositories.UserRepository
	gateway           *gateway.Client
	successURL        string
	failureURL        string
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(
	paymentRepo repositories.PaymentRepository,
	userRepo repositories.UserRepository,
	gw *gateway.Client,
	successURL, failureURL string,
) *PaymentHandler {
	return &PaymentHandler{
		paymentRepository: paymentRepo,
		userRepository:    userRepo,
		gateway:           gw,
		successURL:        successURL,
		failureURL:        failureURL,
	}
}

// RegisterPaymentRoutes registers payment routes. Verify is public: the
// gateway redirects the payer's browser to it.
func (h *PaymentHandler) RegisterPaymentRoutes(e *echo.Echo) {
	e.POST("/payments/initiate", h.Initiate, middleware.RequireAuth())
	e.GET("/payments/verify", h.Verify)
}

// Initiate creates a pending payment and returns the signed fields the
// client needs to build the gateway redirect form.
func (h *PaymentHandler) Initiate(c echo.Context) error {
	p := middleware.GetPrincipal(c)

	var req models.InitiatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if req.PublisherID != nil {
		publisher, err := h.userRepository.GetUserByID(*req.PublisherID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return echo.NewHTTPError(http.StatusNotFound, "Publisher not found")
			}
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		if publisher.Role != models.RolePublisher {
			return echo.NewHTTPError(http.StatusBadRequest, "Recipient is not a publisher")
		}
	}

	transactionUUID := uuid.NewString()
	signature := h.gateway.Sign(req.Amount, transactionUUID)

	payment := &models.Payment{
		UserID:          p.UserID,
		PublisherID:     req.PublisherID,
		ArticleID:       req.ArticleID,
		Amount:          req.Amount,
		TransactionUUID: transactionUUID,
		Status:          models.PaymentPending,
		Purpose:         req.Purpose,
	}
	if err := h.paymentRepository.CreatePayment(payment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"amount":             gateway.FormatAmount(req.Amount),
			"product_code":       h.gateway.ProductCode(),
			"transaction_uuid":   transactionUUID,
			"signature":          signature,
			"signed_field_names": gateway.SignedFieldNames,
		},
	})
}

// Verify reconciles the gateway's redirect callback. The redirect payload
// alone is never trusted: a server-to-server status check must confirm the
// transaction before any state changes. Unknown or already-completed
// transactions redirect to success without touching anything, so duplicate
// callbacks are harmless.
func (h *PaymentHandler) Verify(c echo.Context) error {
	payload, err := gateway.DecodeCallback(c.QueryParam("data"))
	if err != nil {
		return c.Redirect(http.StatusFound, h.failureURL)
	}

	if payload.Status != gateway.StatusComplete {
		return c.Redirect(http.StatusFound, h.failureURL)
	}

	status, err := h.gateway.CheckStatus(c.Request().Context(), payload.TotalAmount, payload.TransactionUUID)
	if err != nil || status != gateway.StatusComplete {
		if err != nil {
			c.Logger().Errorf("payment verification: gateway status check failed for %s: %v", payload.TransactionUUID, err)
		}
		return c.Redirect(http.StatusFound, h.failureURL)
	}

	payment, err := h.paymentRepository.GetByTransactionUUID(payload.TransactionUUID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Redirect(http.StatusFound, h.successURL)
		}
		return c.Redirect(http.StatusFound, h.failureURL)
	}
	if payment.Status == models.PaymentCompleted {
		return c.Redirect(http.StatusFound, h.successURL)
	}

	if err := h.paymentRepository.MarkCompleted(payment.TransactionUUID, payload.TransactionCode); err != nil {
		c.Logger().Errorf("payment verification: failed to complete %s: %v", payment.TransactionUUID, err)
		return c.Redirect(http.StatusFound, h.failureURL)
	}

	if payment.PublisherID != nil {
		if err := h.userRepository.CreditBalance(*payment.PublisherID, payment.Amount); err != nil {
			c.Logger().Errorf("payment verification: failed to credit publisher %d: %v", *payment.PublisherID, err)
		}
	}

	return c.Redirect(http.StatusFound,
		fmt.Sprintf("%s?amount=%s", h.successURL, gateway.FormatAmount(payment.Amount)))
}
