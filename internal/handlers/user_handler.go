package handlers

import (
	"net/http"
	"strconv"

	"github.com/aayushkarn/khabari/backend/internal/middleware"
	"github.com/aayushkarn/khabari/backend/internal/models"
	"github.com/aayushkarn/khabari/backend/internal/notifier"
	"github.com/aayushkarn/khabari/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// UserHandler handles HTTP requests related to users and subscriptions
type UserHandler struct {
	userRepository         repositories.UserRepository
	subscriptionRepository repositories.SubscriptionRepository
	notifier               *notifier.Notifier
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, subRepo repositories.SubscriptionRepository, n *notifier.Notifier) *UserHandler {
	return &UserHandler{
		userRepository:         userRepo,
		subscriptionRepository: subRepo,
		notifier:               n,
	}
}

// RegisterUserRoutes registers user profile and subscription routes
func (h *UserHandler) RegisterUserRoutes(e *echo.Echo) {
	e.GET("/profile", h.GetProfile, middleware.RequireAuth())
	e.PUT("/profile", h.UpdateProfile, middleware.RequireAuth())
	e.GET("/users/:id", h.GetUser)
	e.POST("/users/:id/subscribe", h.Subscribe, middleware.RequireAuth())
	e.DELETE("/users/:id/subscribe", h.Unsubscribe, middleware.RequireAuth())
}

// GetUser retrieves a user's public profile by ID
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}
	user, err := h.userRepository.GetUserByID(uint(id))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, user.ToCompact())
}

// GetProfile retrieves the authenticated user's profile
func (h *UserHandler) GetProfile(c echo.Context) error {
	p := middleware.GetPrincipal(c)

	user, err := h.userRepository.GetUserByID(p.UserID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile updates the authenticated user's profile fields
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	p := middleware.GetPrincipal(c)

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByID(p.UserID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if req.Bio != "" {
		user.Bio = req.Bio
	}
	if req.Picture != "" {
		user.Picture = req.Picture
	}
	if req.Contact != "" {
		user.Contact = req.Contact
	}

	if err := h.userRepository.UpdateUser(user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, user)
}

// Subscribe subscribes the caller to a publisher
func (h *UserHandler) Subscribe(c echo.Context) error {
	p := middleware.GetPrincipal(c)

	publisherID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}
	if p.UserID == uint(publisherID) {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot subscribe to yourself")
	}

	publisher, err := h.userRepository.GetUserByID(uint(publisherID))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Publisher not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if publisher.Role != models.RolePublisher {
		return echo.NewHTTPError(http.StatusBadRequest, "Can only subscribe to publishers")
	}

	subscribed, err := h.subscriptionRepository.IsSubscribed(p.UserID, publisher.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if subscribed {
		return echo.NewHTTPError(http.StatusConflict, "Already subscribed to this publisher")
	}

	sub := &models.Subscription{SubscriberID: p.UserID, PublisherID: publisher.ID}
	if err := h.subscriptionRepository.CreateSubscription(sub); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if subscriber, err := h.userRepository.GetUserByID(p.UserID); err == nil {
		h.notifier.Subscribed(publisher.ID, subscriber)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"subscribed": true}})
}

// Unsubscribe removes the caller's subscription to a publisher
func (h *UserHandler) Unsubscribe(c echo.Context) error {
	p := middleware.GetPrincipal(c)

	publisherID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	if err := h.subscriptionRepository.DeleteSubscription(p.UserID, uint(publisherID)); err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Subscription not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"subscribed": false}})
}
