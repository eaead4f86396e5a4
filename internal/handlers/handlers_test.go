package handlers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/authenx/internal/auth"
	"github.com/example/authenx/internal/config"
	"github.com/example/authenx/internal/obs"
	"github.com/example/authenx/internal/usecase"
)

const testJWTSecret = "test-secret"

type fixedEstimator struct {
	score float64
}

func (f *fixedEstimator) Estimate(ctx context.Context, image []byte) (float64, error) {
	return f.score, nil
}

func newTestRouter(t *testing.T, jwtSecret string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{Threshold: 0.6}
	metrics := obs.NewMetrics(prometheus.NewRegistry())
	uc := usecase.NewVerificationUseCase(cfg, nil, &fixedEstimator{score: 0.9}, metrics, zap.NewNop())

	router := gin.New()
	RegisterRoutes(router, uc, metrics.Handler(), auth.JWTMiddleware(jwtSecret, ""))
	return router
}

func postJSON(router *gin.Engine, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/verify-image", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestVerifyImageNoInput(t *testing.T) {
	router := newTestRouter(t, "")

	resp := postJSON(router, `{"asset_id":"asset-1"}`, nil)

	require.Equal(t, http.StatusOK, resp.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "No image provided", body["message"])
	assert.NotContains(t, body, "is_real")
	assert.NotContains(t, body, "authenticity_score")
}

func TestVerifyImageMalformedBase64(t *testing.T) {
	router := newTestRouter(t, "")

	resp := postJSON(router, `{"image_base64":"%%%"}`, nil)

	require.Equal(t, http.StatusOK, resp.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["message"], "Invalid base64:")
}

func TestVerifyImageInlineSuccess(t *testing.T) {
	router := newTestRouter(t, "")
	payload := base64.StdEncoding.EncodeToString([]byte("not-a-real-photo"))

	resp := postJSON(router, `{"image_base64":"`+payload+`"}`, nil)

	require.Equal(t, http.StatusOK, resp.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, true, body["is_real"])
	// realism 0.9 with no metadata and a neutral geotag: 0.63 + 0.1.
	assert.InDelta(t, 0.73, body["authenticity_score"], 1e-9)
	assert.InDelta(t, 0.9, body["realism_score"], 1e-9)
	assert.Equal(t, false, body["editing_detected"])
	assert.Nil(t, body["editing_tool"])
	assert.Equal(t, true, body["geotag_valid"])
	assert.Equal(t, "No GPS — neutral", body["geotag_reason"])
	assert.Equal(t, "✅ Real image", body["message"])
	assert.Contains(t, body, "metadata")
}

func TestLiveness(t *testing.T) {
	router := newTestRouter(t, "")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "running")
	assert.Equal(t, "*", resp.Header().Get("Access-Control-Allow-Origin"))
}

func TestPreflightAnyPath(t *testing.T) {
	router := newTestRouter(t, "")

	for _, path := range []string{"/verify-image", "/anything/nested"} {
		req := httptest.NewRequest(http.MethodOptions, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		require.Equal(t, http.StatusOK, resp.Code, path)
		assert.Contains(t, resp.Body.String(), "CORS preflight OK")
		assert.Equal(t, "*", resp.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "POST, GET, OPTIONS", resp.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "*", resp.Header().Get("Access-Control-Allow-Headers"))
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t, "")

	// One verification so the counters exist in the exposition.
	payload := base64.StdEncoding.EncodeToString([]byte("image"))
	postJSON(router, `{"image_base64":"`+payload+`"}`, nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "authenx_verifications_total")
}

func TestVerifyImageRequiresTokenWhenSecretConfigured(t *testing.T) {
	router := newTestRouter(t, testJWTSecret)

	resp := postJSON(router, `{}`, nil)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestVerifyImageAcceptsValidToken(t *testing.T) {
	router := newTestRouter(t, testJWTSecret)
	token := buildTestToken(t, "user-123")
	payload := base64.StdEncoding.EncodeToString([]byte("image"))

	resp := postJSON(router, `{"image_base64":"`+payload+`"}`, map[string]string{
		"Authorization": "Bearer " + token,
	})

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"success":true`)
}

func buildTestToken(t *testing.T, subject string) string {
	t.Helper()

	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}
