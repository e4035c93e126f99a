package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"winereco/internal/config"
	"winereco/internal/services"
)

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	// A cache over empty directories: every model load fails, which is
	// exactly what the error paths under test need.
	cache := services.NewModelCache(t.TempDir(), t.TempDir(), logger)
	engine := services.NewPreferenceEngine(&config.EngineConfig{}, logger)
	reco := services.NewRecommendationService(cache, engine, nil, 0, logger)
	h := New(logger, reco)

	router := gin.New()
	router.GET("/health", h.Health.Check)
	router.GET("/api/v1/info", h.Recommendation.Info)
	router.GET("/api/v1/recommend", h.Recommendation.Query)
	router.POST("/api/v1/recommendations", h.Recommendation.RecommendProfile)
	return router
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body, &envelope))
	return envelope.Error.Code
}

func TestHealthCheck(t *testing.T) {
	router := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestInfo_UnknownStyle(t *testing.T) {
	router := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/info?style=reds", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "MODEL_NOT_FOUND", errorCode(t, w.Body.Bytes()))
}

func TestQuery_MissingQueryParameter(t *testing.T) {
	router := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/recommend?style=reds", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "MISSING_QUERY", errorCode(t, w.Body.Bytes()))
}

func TestQuery_ModelLoadFailure(t *testing.T) {
	router := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/recommend?query=pinot+noir&style=reds", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "QUERY_FAILED", errorCode(t, w.Body.Bytes()))
}

func TestRecommendProfile_InvalidBody(t *testing.T) {
	router := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_REQUEST_BODY", errorCode(t, w.Body.Bytes()))
}

func TestRecommendProfile_ValidationFailures(t *testing.T) {
	router := testRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{
			name: "missing profile",
			body: `{"style": "reds", "k": 5}`,
		},
		{
			name: "unknown style",
			body: `{"style": "orange", "k": 5, "profile": {"user_id": "u01"}}`,
		},
		{
			name: "k above cap",
			body: `{"style": "reds", "k": 500, "profile": {"user_id": "u01"}}`,
		},
		{
			name: "missing user id",
			body: `{"style": "reds", "k": 5, "profile": {"terms": ["pinot"]}}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "INVALID_REQUEST", errorCode(t, w.Body.Bytes()))
		})
	}
}
