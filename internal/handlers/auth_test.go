package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRegisterRejectsInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAuthHandler(nil, nil)

	router := gin.New()
	router.POST("/auth/register", handler.Register)

	tests := []struct {
		name string
		body string
	}{
		{"empty body", `{}`},
		{"missing password", `{"name":"Ada","email":"ada@example.com","role":"volunteer"}`},
		{"short password", `{"name":"Ada","email":"ada@example.com","password":"123","role":"volunteer"}`},
		{"bad email", `{"name":"Ada","email":"not-an-email","password":"password123","role":"volunteer"}`},
		{"admin not self-assignable", `{"name":"Ada","email":"ada@example.com","password":"password123","role":"admin"}`},
		{"unknown role", `{"name":"Ada","email":"ada@example.com","password":"password123","role":"superuser"}`},
		{"short name", `{"name":"A","email":"ada@example.com","password":"password123","role":"volunteer"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestLoginRejectsInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAuthHandler(nil, nil)

	router := gin.New()
	router.POST("/auth/login", handler.Login)

	tests := []string{
		`{}`,
		`{"email":"ada@example.com"}`,
		`{"email":"not-an-email","password":"password123"}`,
	}

	for _, body := range tests {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, "body: %s", body)
	}
}
