package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mindmap-backend/internal/platform/apierr"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) ErrorEnvelope {
	t.Helper()
	var env ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, rec.Body.String())
	}
	return env
}

func TestRespondAPIError(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{
			name:    "api error",
			err:     apierr.NotFound("mind_map_not_found", errors.New("mind map not found")),
			status:  http.StatusNotFound,
			code:    "mind_map_not_found",
			message: "mind map not found",
		},
		{
			name:    "plain error hides details",
			err:     errors.New("pq: connection refused"),
			status:  http.StatusInternalServerError,
			code:    "fallback",
			message: "Internal Server Error",
		},
		{
			name:    "api error without cause",
			err:     apierr.New(http.StatusUnauthorized, "unauthorized", nil),
			status:  http.StatusUnauthorized,
			code:    "unauthorized",
			message: "unauthorized",
		},
	}
	for _, tc := range tests {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		RespondAPIError(c, tc.err, "fallback")
		if rec.Code != tc.status {
			t.Fatalf("%s: status got=%d want=%d", tc.name, rec.Code, tc.status)
		}
		env := decodeEnvelope(t, rec)
		if env.Error.Code != tc.code || env.Error.Message != tc.message {
			t.Fatalf("%s: envelope got=%+v", tc.name, env.Error)
		}
	}
}
