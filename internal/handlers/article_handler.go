package handlers

import (
	"net/http"
	"strconv"

	"github.com/aayushkarn/khabari/backend/internal/middleware"
	"github.com/aayushkarn/khabari/backend/internal/models"
	"github.com/aayushkarn/khabari/backend/internal/notifier"
	"github.com/aayushkarn/khabari/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// ArticleHandler handles HTTP requests related to articles and moderation
type ArticleHandler struct {
	articleRepository      repositories.ArticleRepository
	userRepository         repositories.UserRepository
	commentRepository      repositories.CommentRepository
	notificationRepository repositories.NotificationRepository
	notifier               *notifier.Notifier
}

// NewArticleHandler creates a new ArticleHandler
func NewArticleHandler(
	articleRepo repositories.ArticleRepository,
	userRepo repositories.UserRepository,
	commentRepo repositories.CommentRepository,
	notifRepo repositories.NotificationRepository,
	n *notifier.Notifier,
) *ArticleHandler {
	return &ArticleHandler{
		articleRepository:      articleRepo,
		userRepository:         userRepo,
		commentRepository:      commentRepo,
		notificationRepository: notifRepo,
		notifier:               n,
	}
}

// RegisterArticleRoutes registers article and moderation routes
func (h *ArticleHandler) RegisterArticleRoutes(e *echo.Echo) {
	e.GET("/articles", h.ListArticles)
	e.POST("/articles", h.CreateArticle, middleware.RequireRoles(models.RolePublisher, models.RoleAdmin))
	e.GET("/articles/publisher/analytics", h.PublisherAnalytics, middleware.RequireRoles(models.RolePublisher, models.RoleAdmin))
	e.GET("/articles/:id", h.GetArticle)
	e.PUT("/articles/:id", h.UpdateArticle, middleware.RequireAuth())
	e.DELETE("/articles/:id", h.DeleteArticle, middleware.RequireAuth())
	e.PATCH("/articles/:id/status", h.SetStatus, middleware.RequireRoles(models.RoleAdmin))
	e.PATCH("/articles/:id/view", h.ViewArticle)
	e.PATCH("/articles/:id/like", h.LikeArticle, middleware.RequireAuth())
	e.PATCH("/articles/:id/unlike", h.UnlikeArticle, middleware.RequireAuth())
	e.PATCH("/articles/:id/share", h.ShareArticle, middleware.RequireAuth())
}

// CreateArticle creates a new article. Publisher submissions always start
// in pending review; admins may choose a status explicitly.
func (h *ArticleHandler) CreateArticle(c echo.Context) error {
	p := middleware.GetPrincipal(c)

	var req models.CreateArticleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	status := models.StatusPending
	if p.Role == models.RoleAdmin {
		status = models.StatusDraft
		if req.Status != "" {
			status = req.Status
		}
	}

	language := req.Language
	if language == "" {
		language = "en"
	}

	article := &models.Article{
		Title:    req.Title,
		Content:  req.Content,
		AuthorID: p.UserID,
		Tags:     req.Tags,
		Category: req.Category,
		Status:   status,
		Language: language,
		Media:    req.Media,
	}

	if err := h.articleRepository.CreateArticle(c.Request().Context(), article); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, article)
}

// ListArticles lists articles. Anonymous and reader callers only ever see
// published content; publishers can request their own submissions with
// ?mine=true; admins may filter by any status.
func (h *ArticleHandler) ListArticles(c echo.Context) error {
	p := middleware.GetPrincipal(c)

	page, _ := strconv.ParseInt(c.QueryParam("page"), 10, 64)
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}

	filter := repositories.ArticleFilter{Status: models.StatusPublished}
	switch {
	case p == nil || p.Role == models.RoleReader:
		// published only
	case p.Role == models.RoleAdmin:
		filter.Status = c.QueryParam("status")
	case p.Role == models.RolePublisher:
		if c.QueryParam("mine") == "true" {
			filter = repositories.ArticleFilter{AuthorID: p.UserID}
		}
	}

	articles, err := h.articleRepository.ListArticles(c.Request().Context(), filter, (page-1)*limit, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"articles": articles},
		"meta":    echo.Map{"page": page, "limit": limit},
	})
}

// GetArticle retrieves a single article; unpublished articles are visible
// only to their author and admins.
func (h *ArticleHandler) GetArticle(c echo.Context) error {
	article, err := h.fetchArticle(c)
	if err != nil {
		return err
	}

	if article.Status != models.StatusPublished {
		p := middleware.GetPrincipal(c)
		if p == nil || (p.Role != models.RoleAdmin && p.UserID != article.AuthorID) {
			return echo.NewHTTPError(http.StatusNotFound, "Article not found")
		}
	}

	return c.JSON(http.StatusOK, article)
}

// UpdateArticle updates content fields. Only the author or an admin may
// edit; the moderation status cannot be changed here — a status field in
// the payload is ignored, not rejected.
func (h *ArticleHandler) UpdateArticle(c echo.Context) error {
	p := middleware.GetPrincipal(c)

	article, err := h.fetchArticle(c)
	if err != nil {
		return err
	}
	if p.Role != models.RoleAdmin && p.UserID != article.AuthorID {
		return echo.NewHTTPError(http.StatusForbidden, "Not the article author")
	}

	var req models.UpdateArticleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if req.Title != "" {
		article.Title = req.Title
	}
	if req.Content != "" {
		article.Content = req.Content
	}
	if req.Tags != nil {
		article.Tags = req.Tags
	}
	if req.Category != "" {
		article.Category = req.Category
	}
	if req.Language != "" {
		article.Language = req.Language
	}
	if req.Media != "" {
		article.Media = req.Media
	}

	if err := h.articleRepository.UpdateArticle(c.Request().Context(), article.ID.Hex(), article); err != nil {
		if err == repositories.ErrArticleNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Article not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, article)
}

// DeleteArticle deletes an article and cascades its comments and
// notifications.
func (h *ArticleHandler) DeleteArticle(c echo.Context) error {
	p := middleware.GetPrincipal(c)

	article, err := h.fetchArticle(c)
	if err != nil {
		return err
	}
	if p.Role != models.RoleAdmin && p.UserID != article.AuthorID {
		return echo.NewHTTPError(http.StatusForbidden, "Not the article author")
	}

	articleID := article.ID.Hex()
	if err := h.articleRepository.DeleteArticle(c.Request().Context(), articleID); err != nil {
		if err == repositories.ErrArticleNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Article not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.commentRepository.DeleteByArticleID(articleID); err != nil {
		c.Logger().Errorf("failed to cascade comments for article %s: %v", articleID, err)
	}
	if err := h.notificationRepository.DeleteByArticleID(articleID); err != nil {
		c.Logger().Errorf("failed to cascade notifications for article %s: %v", articleID, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// SetStatus is the admin moderation transition. Publishing fans out
// notifications to the author and every reader; rejection notifies the
// author. Fan-out failures never roll back the status write.
func (h *ArticleHandler) SetStatus(c echo.Context) error {
	p := middleware.GetPrincipal(c)

	var req models.SetStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	article, err := h.fetchArticle(c)
	if err != nil {
		return err
	}

	if err := h.articleRepository.SetStatus(c.Request().Context(), article.ID.Hex(), req.Status); err != nil {
		if err == repositories.ErrArticleNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Article not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	article.Status = req.Status

	switch req.Status {
	case models.StatusPublished:
		h.notifier.ArticlePublished(article, p.UserID)
	case models.StatusRejected:
		h.notifier.ArticleRejected(article, p.UserID)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"status": req.Status}})
}

// ViewArticle counts a view. The author viewing their own article is a
// successful no-op; everyone else increments on every call.
func (h *ArticleHandler) ViewArticle(c echo.Context) error {
	article, err := h.fetchArticle(c)
	if err != nil {
		return err
	}

	p := middleware.GetPrincipal(c)
	if p != nil && p.UserID == article.AuthorID {
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"views": article.Views}})
	}

	if err := h.articleRepository.IncrementViews(c.Request().Context(), article.ID.Hex()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"views": article.Views + 1}})
}

// LikeArticle likes an article; liking twice is a conflict
func (h *ArticleHandler) LikeArticle(c echo.Context) error {
	p := middleware.GetPrincipal(c)

	article, err := h.fetchArticle(c)
	if err != nil {
		return err
	}

	if err := h.articleRepository.Like(c.Request().Context(), article.ID.Hex(), p.UserID); err != nil {
		switch err {
		case repositories.ErrAlreadyLiked:
			return echo.NewHTTPError(http.StatusConflict, "Article already liked by this user")
		case repositories.ErrArticleNotFound:
			return echo.NewHTTPError(http.StatusNotFound, "Article not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if actor, err := h.userRepository.GetUserByID(p.UserID); err == nil {
		h.notifier.Engagement(models.NotificationLike, article, actor)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"likes": article.Likes + 1}})
}

// UnlikeArticle removes a like; unliking without a prior like is a conflict
func (h *ArticleHandler) UnlikeArticle(c echo.Context) error {
	p := middleware.GetPrincipal(c)

	article, err := h.fetchArticle(c)
	if err != nil {
		return err
	}

	if err := h.articleRepository.Unlike(c.Request().Context(), article.ID.Hex(), p.UserID); err != nil {
		switch err {
		case repositories.ErrNotLiked:
			return echo.NewHTTPError(http.StatusConflict, "Article not liked by this user")
		case repositories.ErrArticleNotFound:
			return echo.NewHTTPError(http.StatusNotFound, "Article not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"likes": article.Likes - 1}})
}

// ShareArticle counts a share and notifies the author
func (h *ArticleHandler) ShareArticle(c echo.Context) error {
	p := middleware.GetPrincipal(c)

	article, err := h.fetchArticle(c)
	if err != nil {
		return err
	}

	if err := h.articleRepository.IncrementShares(c.Request().Context(), article.ID.Hex()); err != nil {
		if err == repositories.ErrArticleNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Article not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if actor, err := h.userRepository.GetUserByID(p.UserID); err == nil {
		h.notifier.Engagement(models.NotificationShare, article, actor)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"shares": article.Shares + 1}})
}

// ArticleStats is one row of the publisher analytics response
type ArticleStats struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Status   string `json:"status"`
	Views    int64  `json:"views"`
	Likes    int64  `json:"likes"`
	Shares   int64  `json:"shares"`
	Comments int64  `json:"comments"`
}

// PublisherAnalytics reports per-article engagement for the caller's
// articles, plus the totals.
func (h *ArticleHandler) PublisherAnalytics(c echo.Context) error {
	p := middleware.GetPrincipal(c)

	articles, err := h.articleRepository.ListArticles(c.Request().Context(),
		repositories.ArticleFilter{AuthorID: p.UserID}, 0, 200)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	stats := make([]ArticleStats, len(articles))
	for i, a := range articles {
		comments, _ := h.commentRepository.CountByArticleID(a.ID.Hex())
		stats[i] = ArticleStats{
			ID:       a.ID.Hex(),
			Title:    a.Title,
			Status:   a.Status,
			Views:    a.Views,
			Likes:    a.Likes,
			Shares:   a.Shares,
			Comments: comments,
		}
	}

	totals, err := h.articleRepository.EngagementByAuthor(c.Request().Context(), p.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"articles": stats, "totals": totals},
	})
}

// fetchArticle loads the article addressed by the :id route param
func (h *ArticleHandler) fetchArticle(c echo.Context) (*models.Article, error) {
	article, err := h.articleRepository.GetArticleByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if err == repositories.ErrArticleNotFound {
			return nil, echo.NewHTTPError(http.StatusNotFound, "Article not found")
		}
		return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return article, nil
}
