package handlers

import (
	"net/http"

	"github.com/aayushkarn/khabari/backend/internal/middleware"
	"github.com/aayushkarn/khabari/backend/internal/models"
	"github.com/aayushkarn/khabari/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// AnalyticsHandler serves the admin dashboard aggregates
type AnalyticsHandler struct {
	userRepository    repositories.UserRepository
	articleRepository repositories.ArticleRepository
	paymentRepository repositories.PaymentRepository
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(
	userRepo repositories.UserRepository,
	articleRepo repositories.ArticleRepository,
	paymentRepo repositories.PaymentRepository,
) *AnalyticsHandler {
	return &AnalyticsHandler{
		userRepository:    userRepo,
		articleRepository: articleRepo,
		paymentRepository: paymentRepo,
	}
}

// RegisterAnalyticsRoutes registers analytics routes
func (h *AnalyticsHandler) RegisterAnalyticsRoutes(e *echo.Echo) {
	e.GET("/analytics/dashboard", h.Dashboard, middleware.RequireRoles(models.RoleAdmin))
}

// Dashboard returns platform-wide counts and totals
func (h *AnalyticsHandler) Dashboard(c echo.Context) error {
	userCounts, err := h.userRepository.CountByRole()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	statusCounts, err := h.articleRepository.CountByStatus(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	articlesByStatus := make(map[string]int64, len(statusCounts))
	for _, sc := range statusCounts {
		articlesByStatus[sc.Status] = sc.Count
	}

	engagement, err := h.articleRepository.EngagementByAuthor(c.Request().Context(), 0)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	paymentVolume, err := h.paymentRepository.SumCompleted()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"users":          userCounts,
			"articles":       articlesByStatus,
			"engagement":     engagement,
			"payment_volume": paymentVolume,
		},
	})
}
