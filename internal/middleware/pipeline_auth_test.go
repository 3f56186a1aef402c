package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func parseBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result), "body: %s", rec.Body.String())
	return result
}

func TestPipelineAuthMiddleware(t *testing.T) {
	const key = "secret-pipeline-key"

	tests := []struct {
		name          string
		configuredKey string
		requestKey    string
		wantStatus    int
		wantErrorCode string
	}{
		{"valid_key", key, key, http.StatusOK, ""},
		{"wrong_key", key, "wrong-key", http.StatusUnauthorized, "INVALID_API_KEY"},
		{"missing_key", key, "", http.StatusUnauthorized, "INVALID_API_KEY"},
		{"prefix_of_key", key, "secret-pipeline", http.StatusUnauthorized, "INVALID_API_KEY"},
		{"key_with_suffix", key, key + "x", http.StatusUnauthorized, "INVALID_API_KEY"},
		{"not_configured", "", "any-key", http.StatusServiceUnavailable, "PIPELINE_NOT_CONFIGURED"},
		{"not_configured_no_key", "", "", http.StatusServiceUnavailable, "PIPELINE_NOT_CONFIGURED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached := false
			r := gin.New()
			r.Use(RequestLogging(), PipelineAuthMiddleware(tt.configuredKey))
			r.POST("/pipeline/instruments/prices", func(c *gin.Context) {
				reached = true
				c.JSON(http.StatusOK, gin.H{"prices_recorded": 0})
			})

			req := httptest.NewRequest(http.MethodPost, "/pipeline/instruments/prices", http.NoBody)
			if tt.requestKey != "" {
				req.Header.Set(PipelineKeyHeader, tt.requestKey)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantErrorCode == "", reached, "handler reached")
			if tt.wantErrorCode != "" {
				errObj, ok := parseBody(t, rec)["error"].(map[string]interface{})
				require.True(t, ok, "expected error object")
				assert.Equal(t, tt.wantErrorCode, errObj["code"])
			}
		})
	}
}
