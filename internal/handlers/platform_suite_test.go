package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/aayushkarn/khabari/backend/internal/gateway"
	"github.com/aayushkarn/khabari/backend/internal/middleware"
	"github.com/aayushkarn/khabari/backend/internal/models"
	"github.com/aayushkarn/khabari/backend/internal/notifier"
	"github.com/aayushkarn/khabari/backend/internal/validators"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

// PlatformTestSuite drives the API end to end through real routing, token
// middleware and role guards, backed by in-memory repositories.
type PlatformTestSuite struct {
	suite.Suite
	e             *echo.Echo
	users         *fakeUserRepo
	articles      *fakeArticleRepo
	notifs        *fakeNotificationRepo
	payments      *fakePaymentRepo
	gatewayServer *httptest.Server

	publisherToken string
	adminToken     string
	readerToken    string
}

func (s *PlatformTestSuite) SetupTest() {
	s.users = newFakeUserRepo()
	s.articles = newFakeArticleRepo()
	s.notifs = newFakeNotificationRepo()
	s.payments = newFakePaymentRepo()
	comments := newFakeCommentRepo()
	subscriptions := newFakeSubscriptionRepo()
	n := notifier.New(s.notifs, s.users)

	s.gatewayServer = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"COMPLETE"}`)
	}))
	gw := gateway.NewClient("8gBm/:&EnhH.1/q", "EPAYTEST", s.gatewayServer.URL, s.gatewayServer.Client())

	s.e = echo.New()
	s.e.Validator = validators.NewValidator()
	s.e.Use(middleware.Authenticate())

	NewAuthHandler(s.users, nil).RegisterAuthRoutes(s.e)
	NewUserHandler(s.users, subscriptions, n).RegisterUserRoutes(s.e)
	NewArticleHandler(s.articles, s.users, comments, s.notifs, n).RegisterArticleRoutes(s.e)
	NewCommentHandler(comments, s.articles, s.users, n).RegisterCommentRoutes(s.e)
	NewNotificationHandler(s.notifs, s.users).RegisterNotificationRoutes(s.e)
	NewPaymentHandler(s.payments, s.users, gw, testSuccessURL, testFailureURL).RegisterPaymentRoutes(s.e)
	NewAnalyticsHandler(s.users, s.articles, s.payments).RegisterAnalyticsRoutes(s.e)

	s.publisherToken = s.signup("asha", models.RolePublisher)
	s.adminToken = s.signup("bikram", models.RoleAdmin)
	s.readerToken = s.signup("chitra", models.RoleReader)
}

func (s *PlatformTestSuite) TearDownTest() {
	s.gatewayServer.Close()
}

func (s *PlatformTestSuite) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(middleware.TokenHeader, token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *PlatformTestSuite) signup(username, role string) string {
	rec := s.do(http.MethodPost, "/register", "", models.RegisterRequest{
		Username: username,
		Password: "correct-horse",
		Role:     role,
	})
	s.Require().Equal(http.StatusCreated, rec.Code)

	rec = s.do(http.MethodPost, "/login", "", models.LoginRequest{
		Username: username,
		Password: "correct-horse",
	})
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Require().NotEmpty(resp.Token)
	return resp.Token
}

func (s *PlatformTestSuite) data(rec *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	data, _ := body["data"].(map[string]interface{})
	return data
}

func (s *PlatformTestSuite) TestRegisterDuplicateUsernameConflicts() {
	rec := s.do(http.MethodPost, "/register", "", models.RegisterRequest{
		Username: "asha",
		Password: "another-pass",
	})
	s.Equal(http.StatusConflict, rec.Code)
}

func (s *PlatformTestSuite) TestReaderCannotCreateArticles() {
	rec := s.do(http.MethodPost, "/articles", s.readerToken, models.CreateArticleRequest{
		Title:    "Readers should not publish",
		Content:  "This submission must be rejected by the role guard.",
		Category: "news",
	})
	s.Equal(http.StatusForbidden, rec.Code)
}

func (s *PlatformTestSuite) TestAnonymousCannotModerate() {
	rec := s.do(http.MethodPatch, "/articles/abc/status", "", models.SetStatusRequest{Status: models.StatusPublished})
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *PlatformTestSuite) TestModerationAndEngagementFlow() {
	// Publisher submits; the article starts pending and is invisible to
	// anonymous listing.
	rec := s.do(http.MethodPost, "/articles", s.publisherToken, models.CreateArticleRequest{
		Title:    "Gandaki hydropower expansion",
		Content:  "Two new plants along the Kali Gandaki corridor cleared review.",
		Category: "news",
	})
	s.Require().Equal(http.StatusCreated, rec.Code)

	var article models.Article
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &article))
	s.Equal(models.StatusPending, article.Status)
	articleID := article.ID.Hex()

	rec = s.do(http.MethodGet, "/articles", "", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Empty(s.data(rec)["articles"])

	// Admin publishes; the article becomes publicly listed and the author
	// plus every reader get notified.
	rec = s.do(http.MethodPatch, "/articles/"+articleID+"/status", s.adminToken,
		models.SetStatusRequest{Status: models.StatusPublished})
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/articles", "", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Len(s.data(rec)["articles"], 1)

	s.Len(s.notifs.byType(models.NotificationPublish), 1)
	s.Len(s.notifs.byType(models.NotificationNewArticle), 1) // one reader registered

	rec = s.do(http.MethodGet, "/notifications", s.publisherToken, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.NotEmpty(s.data(rec)["notifications"])

	// Reader likes once, then conflicts.
	rec = s.do(http.MethodPatch, "/articles/"+articleID+"/like", s.readerToken, nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodPatch, "/articles/"+articleID+"/like", s.readerToken, nil)
	s.Equal(http.StatusConflict, rec.Code)

	stored, err := s.articles.GetArticleByID(context.Background(), articleID)
	s.Require().NoError(err)
	s.Equal(int64(1), stored.Likes)
	s.Len(stored.LikedBy, 1)
	s.Len(s.notifs.byType(models.NotificationLike), 1)

	// Reader comments; the author is notified.
	rec = s.do(http.MethodPost, "/comments/"+articleID, s.readerToken,
		models.CreateCommentRequest{Content: "Great coverage of the corridor."})
	s.Require().Equal(http.StatusCreated, rec.Code)
	s.Len(s.notifs.byType(models.NotificationComment), 1)
}

func (s *PlatformTestSuite) TestPaymentEndToEnd() {
	publisher, err := s.users.GetUserByUsername("asha")
	s.Require().NoError(err)

	rec := s.do(http.MethodPost, "/payments/initiate", s.readerToken, models.InitiatePaymentRequest{
		Amount:      100,
		Purpose:     models.PurposeSupport,
		PublisherID: &publisher.ID,
	})
	s.Require().Equal(http.StatusOK, rec.Code)

	data := s.data(rec)
	txnUUID := data["transaction_uuid"].(string)
	s.NotEmpty(data["signature"])

	payment, err := s.payments.GetByTransactionUUID(txnUUID)
	s.Require().NoError(err)
	s.Equal(models.PaymentPending, payment.Status)

	callback := "/payments/verify?data=" + url.QueryEscape(s.callbackData(txnUUID))
	rec = s.do(http.MethodGet, callback, "", nil)
	s.Equal(http.StatusFound, rec.Code)
	s.Equal(testSuccessURL+"?amount=100", rec.Header().Get("Location"))

	payment, _ = s.payments.GetByTransactionUUID(txnUUID)
	s.Equal(models.PaymentCompleted, payment.Status)

	publisher, _ = s.users.GetUserByID(publisher.ID)
	s.Equal(100.0, publisher.Balance)

	// Replay: still one completion, one credit.
	rec = s.do(http.MethodGet, callback, "", nil)
	s.Equal(http.StatusFound, rec.Code)

	publisher, _ = s.users.GetUserByID(publisher.ID)
	s.Equal(100.0, publisher.Balance)
}

func (s *PlatformTestSuite) TestAdminDashboard() {
	rec := s.do(http.MethodGet, "/analytics/dashboard", s.adminToken, nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	users := s.data(rec)["users"].(map[string]interface{})
	s.Equal(float64(1), users[models.RoleReader])
	s.Equal(float64(1), users[models.RolePublisher])
	s.Equal(float64(1), users[models.RoleAdmin])

	rec = s.do(http.MethodGet, "/analytics/dashboard", s.readerToken, nil)
	s.Equal(http.StatusForbidden, rec.Code)
}

func (s *PlatformTestSuite) TestSubscribeNotifiesPublisher() {
	publisher, err := s.users.GetUserByUsername("asha")
	s.Require().NoError(err)
	path := fmt.Sprintf("/users/%d/subscribe", publisher.ID)

	rec := s.do(http.MethodPost, path, s.readerToken, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Len(s.notifs.byType(models.NotificationSubscribe), 1)

	rec = s.do(http.MethodPost, path, s.readerToken, nil)
	s.Equal(http.StatusConflict, rec.Code)

	rec = s.do(http.MethodDelete, path, s.readerToken, nil)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *PlatformTestSuite) callbackData(txnUUID string) string {
	return callbackData(s.T(), gateway.StatusComplete, "100", "000AWEO", txnUUID)
}

func TestPlatformTestSuite(t *testing.T) {
	suite.Run(t, new(PlatformTestSuite))
}
