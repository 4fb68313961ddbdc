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

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	articleRepository repositories.ArticleRepository
	userRepository    repositories.UserRepository
	notifier          *notifier.Notifier
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(
	commentRepo repositories.CommentRepository,
	articleRepo repositories.ArticleRepository,
	userRepo repositories.UserRepository,
	n *notifier.Notifier,
) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		articleRepository: articleRepo,
		userRepository:    userRepo,
		notifier:          n,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(e *echo.Echo) {
	e.POST("/comments/:articleId", h.CreateComment, middleware.RequireAuth())
	e.GET("/comments/:articleId", h.GetCommentsByArticleID)
	e.DELETE("/comments/:id", h.DeleteComment, middleware.RequireAuth())
}

// CreateComment creates a new comment on an article and notifies the author
func (h *CommentHandler) CreateComment(c echo.Context) error {
	p := middleware.GetPrincipal(c)
	articleID := c.Param("articleId")

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	article, err := h.articleRepository.GetArticleByID(c.Request().Context(), articleID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Article not found")
	}

	comment := &models.Comment{
		ArticleID: article.ID.Hex(),
		UserID:    p.UserID,
		Content:   req.Content,
	}
	if err := h.commentRepository.CreateComment(comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if actor, err := h.userRepository.GetUserByID(p.UserID); err == nil {
		h.notifier.Engagement(models.NotificationComment, article, actor)
	}

	return c.JSON(http.StatusCreated, comment)
}

// GetCommentsByArticleID retrieves all comments for an article
func (h *CommentHandler) GetCommentsByArticleID(c echo.Context) error {
	articleID := c.Param("articleId")

	if _, err := h.articleRepository.GetArticleByID(c.Request().Context(), articleID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Article not found")
	}

	comments, err := h.commentRepository.GetCommentsByArticleID(articleID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"comments": comments}})
}

// DeleteComment deletes a comment; only its author or an admin may
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	p := middleware.GetPrincipal(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid comment ID")
	}

	comment, err := h.commentRepository.GetCommentByID(uint(id))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if p.Role != models.RoleAdmin && p.UserID != comment.UserID {
		return echo.NewHTTPError(http.StatusForbidden, "Not the comment author")
	}

	if err := h.commentRepository.DeleteComment(comment.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}
