package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"technestia/internal/config"
	"technestia/internal/models"
	"technestia/internal/service"
	"technestia/internal/upload"
	"technestia/internal/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	gdb, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := gdb.AutoMigrate(
		&models.User{}, &models.RefreshToken{}, &models.Project{},
		&models.Collaboration{}, &models.Feedback{}, &models.FeedbackReaction{},
		&models.ChatRoom{}, &models.ChatParticipant{}, &models.ChatMessage{},
		&models.ActivityLog{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	cfg := config.Config{Port: "0", JWTSecret: "secret", Env: "dev", AccessTokenTTLMinutes: 15, RefreshTokenTTLDays: 7}
	hub := ws.NewHub()
	h := NewHandler(
		cfg,
		service.NewUserService(gdb, cfg, nil),
		service.NewProjectService(gdb),
		service.NewCollabService(gdb, nil),
		service.NewFeedbackService(gdb, nil),
		service.NewChatService(gdb, hub),
		service.NewActivityService(gdb),
		upload.DiscardUploader{},
	)
	return SetupRouter(cfg, gdb, hub, h)
}

func TestHealthz(t *testing.T) {
	engine := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestRegisterLoginFlow(t *testing.T) {
	engine := testRouter(t)

	body := bytes.NewBufferString(`{"email":"alice@example.com","password":"password123","name":"Alice"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("register: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	body = bytes.NewBufferString(`{"email":"alice@example.com","password":"password123"}`)
	req = httptest.NewRequest(http.MethodPost, "/api/auth/login", body)
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Success     bool   `json:"success"`
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if !resp.Success || resp.AccessToken == "" {
		t.Fatalf("login response missing token: %s", w.Body.String())
	}

	// The issued token opens the authed surface.
	req = httptest.NewRequest(http.MethodGet, "/api/project/my", nil)
	req.Header.Set("Authorization", "Bearer "+resp.AccessToken)
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("project/my: expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRegister_ValidationErrors(t *testing.T) {
	engine := testRouter(t)

	body := bytes.NewBufferString(`{"email":"not-an-email","password":"short"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Success bool              `json:"success"`
		Errors  map[string]string `json:"errors"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Success {
		t.Error("success = true on validation failure")
	}
	if len(resp.Errors) == 0 {
		t.Error("expected field errors, got none")
	}
}

func TestAuthRequired(t *testing.T) {
	engine := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/chat/rooms", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestPublicProjectVisibility(t *testing.T) {
	engine := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/project/all", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	// Unknown project id reads as 404, not 500.
	req = httptest.NewRequest(http.MethodGet, "/api/project/get/99999", nil)
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}
