package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"taskdesk/internal/config"
	"taskdesk/internal/handlers"
	"taskdesk/internal/models"
	"taskdesk/internal/services"
)

func authRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatal("Failed to open database:", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatal("Failed to migrate:", err)
	}

	authService := services.NewAuthService(config.AuthConfig{
		JWTSecret:      "test-secret",
		AccessTokenTTL: time.Hour,
		Issuer:         "taskdesk-backend",
	})

	authHandler := handlers.NewAuthHandler(db, authService)
	userHandler := handlers.NewUserHandler(db, services.NewUserService())

	router := gin.New()
	router.POST("/api/auth/register", authHandler.Register)
	router.POST("/api/auth/token", authHandler.Token)
	router.GET("/api/users", userHandler.ListUsers)
	return router
}

func postJSON(router *gin.Engine, path string, payload map[string]string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRegisterAndToken(t *testing.T) {
	router := authRouter(t)

	w := postJSON(router, "/api/auth/register", map[string]string{
		"email":        "ana@example.com",
		"password":     "hunter2hunter2",
		"display_name": "Ana",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
	}
	if bytes.Contains(w.Body.Bytes(), []byte("hunter2")) {
		t.Error("Password material leaked into the register response")
	}

	w = postJSON(router, "/api/auth/token", map[string]string{
		"email":    "ana@example.com",
		"password": "hunter2hunter2",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal("Failed to decode response:", err)
	}
	if resp.AccessToken == "" || resp.TokenType != "Bearer" {
		t.Errorf("Unexpected token response: %+v", resp)
	}
}

func TestTokenWrongPassword(t *testing.T) {
	router := authRouter(t)

	w := postJSON(router, "/api/auth/register", map[string]string{
		"email":    "ana@example.com",
		"password": "hunter2hunter2",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status %d, got %d", http.StatusCreated, w.Code)
	}

	w = postJSON(router, "/api/auth/token", map[string]string{
		"email":    "ana@example.com",
		"password": "nope",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	router := authRouter(t)

	w := postJSON(router, "/api/auth/register", map[string]string{
		"email":    "ana@example.com",
		"password": "short",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestListUsers(t *testing.T) {
	router := authRouter(t)

	for _, email := range []string{"b@example.com", "a@example.com"} {
		w := postJSON(router, "/api/auth/register", map[string]string{
			"email":    email,
			"password": "hunter2hunter2",
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("Expected status %d, got %d", http.StatusCreated, w.Code)
		}
	}

	req, _ := http.NewRequest("GET", "/api/users", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var resp struct {
		Users []models.UserListing `json:"users"`
		Total int                  `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal("Failed to decode response:", err)
	}
	if resp.Total != 2 || resp.Users[0].Email != "a@example.com" {
		t.Errorf("Unexpected listing: %+v", resp)
	}
}
