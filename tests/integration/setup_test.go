package integration

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"fintrack/internal/handlers"
	"fintrack/internal/logger"
	"fintrack/internal/middleware"
	"fintrack/internal/repository"
	"fintrack/internal/services"
	"fintrack/internal/testutil"
	"fintrack/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test", nil)
	validator.Register()
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	categoryService := services.NewCategoryService(repository.NewGormCategoryStore(db))
	auditService := services.NewAuditService(db)
	categoryHandler := handlers.NewCategoryHandler(categoryService, auditService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	protected := router.Group("/api/v1")
	protected.Use(middleware.AuthMiddleware())
	categoryHandler.RegisterRoutes(protected)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// issueToken signs an access token for subject with role.
func issueToken(t *testing.T, subject, role string) string {
	t.Helper()
	token, err := middleware.GenerateAccessToken(subject, role)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return token
}

// createCategory posts body as an admin and returns the new category's id.
func (app *testApp) createCategory(t *testing.T, token, body string) string {
	t.Helper()
	rec := app.request("POST", "/api/v1/categories", body, token)
	if rec.Code != 201 {
		t.Fatalf("create failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["category"].(map[string]interface{})["id"].(string)
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	errObj, ok := parseJSON(t, rec)["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object, got %s", rec.Body.String())
	}
	return errObj["code"].(string)
}

func listNames(t *testing.T, rec *httptest.ResponseRecorder, key string) []string {
	t.Helper()
	items := parseJSON(t, rec)[key].([]interface{})
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.(map[string]interface{})["name"].(string))
	}
	return names
}
