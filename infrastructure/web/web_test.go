package web_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jrazmi/todokeeper/infrastructure/web"
	"github.com/jrazmi/todokeeper/sdk/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandler(opts ...web.HandlerOption) *web.WebHandler {
	opts = append([]web.HandlerOption{web.WithTelemetry(telemetry.NewTelemetry())}, opts...)
	wh := web.NewWebHandler(web.HandlerOptions{CORSOrigins: []string{"*"}}, opts...)

	api := wh.Group("/api")
	api.GET("/items/{id}", func(ctx context.Context, r *http.Request) web.Encoder {
		return web.NewJSONResponse(map[string]string{"id": web.Param(r, "id")})
	})
	api.PATCH("/items/{id}/flag", func(ctx context.Context, r *http.Request) web.Encoder {
		return web.NewJSONResponse(map[string]bool{"flagged": true})
	})
	api.DELETE("/items/{id}", func(ctx context.Context, r *http.Request) web.Encoder {
		return nil
	})
	wh.NotFound(func(ctx context.Context, r *http.Request) web.Encoder {
		return web.NewError(http.StatusNotFound, "Resource not found")
	})
	return wh
}

func do(wh http.Handler, method, target string, body string, header map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	wh.ServeHTTP(rec, req)
	return rec
}

func TestRouteGroupAndParams(t *testing.T) {
	rec := do(newHandler(), http.MethodGet, "/api/items/42", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"42"}`, rec.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
}

func TestPatchRoute(t *testing.T) {
	rec := do(newHandler(), http.MethodPatch, "/api/items/1/flag", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"flagged":true}`, rec.Body.String())
}

func TestNilEncoderIsNoContent(t *testing.T) {
	rec := do(newHandler(), http.MethodDelete, "/api/items/1", "", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestSecurityAndRequestHeaders(t *testing.T) {
	wh := newHandler(web.WithDefaultHeaders(map[string]string{"X-Frame-Options": "SAMEORIGIN"}))
	rec := do(wh, http.MethodGet, "/api/items/1", "", nil)

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "1; mode=block", rec.Header().Get("X-XSS-Protection"))
	assert.Equal(t, "SAMEORIGIN", rec.Header().Get("X-Frame-Options"))

	_, err := uuid.Parse(rec.Header().Get(web.RequestIDHeader))
	assert.NoError(t, err)
}

func TestNotFoundCatchAll(t *testing.T) {
	wh := newHandler()

	for _, target := range []string{"/nope", "/api/items", "/api/items/1/unknown"} {
		rec := do(wh, http.MethodGet, target, "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, target)
		assert.JSONEq(t, `{"error":"Resource not found"}`, rec.Body.String(), target)
	}
}

func TestCORSPreflight(t *testing.T) {
	rec := do(newHandler(), http.MethodOptions, "/api/items/1/flag", "", map[string]string{
		"Origin":                        "http://localhost:3000",
		"Access-Control-Request-Method": http.MethodPatch,
	})

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPatch)
}

func TestCORSSpecificOrigin(t *testing.T) {
	wh := web.NewWebHandler(web.HandlerOptions{}, web.WithCORS([]string{"http://app.local"}))
	wh.GET("/ping", func(ctx context.Context, r *http.Request) web.Encoder {
		return web.NewJSONResponse("pong")
	})

	rec := do(wh, http.MethodGet, "/ping", "", map[string]string{"Origin": "http://app.local"})
	assert.Equal(t, "http://app.local", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = do(wh, http.MethodGet, "/ping", "", map[string]string{"Origin": "http://evil.local"})
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestDecode(t *testing.T) {
	jsonHeader := map[string]string{"Content-Type": "application/json"}

	tests := []struct {
		name   string
		body   string
		header map[string]string
		err    error
	}{
		{"ok", `{"title":"T"}`, jsonHeader, nil},
		{"charset", `{"title":"T"}`, map[string]string{"Content-Type": "application/json; charset=utf-8"}, nil},
		{"empty", "", jsonHeader, web.ErrEmptyBody},
		{"whitespace", "   ", jsonHeader, web.ErrEmptyBody},
		{"text", `{"title":"T"}`, map[string]string{"Content-Type": "text/plain"}, web.ErrUnsupportedMedia},
		{"malformed", `{"title":`, jsonHeader, web.ErrInvalidJSON},
		{"trailing", `{"title":"T"} {}`, jsonHeader, web.ErrInvalidJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req *http.Request
			if tt.body == "" {
				req = httptest.NewRequest(http.MethodPost, "/", nil)
			} else {
				req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			}
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}

			var v map[string]any
			err := web.Decode(req, &v)
			if tt.err == nil {
				require.NoError(t, err)
				assert.Equal(t, "T", v["title"])
				return
			}
			assert.True(t, errors.Is(err, tt.err), "got %v", err)
		})
	}
}

func TestDecodeTooLarge(t *testing.T) {
	big := `{"title":"` + strings.Repeat("a", web.MaxBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(big))
	req.Header.Set("Content-Type", "application/json")

	var v map[string]any
	assert.ErrorIs(t, web.Decode(req, &v), web.ErrBodyTooLarge)
}

func TestRespondErrorValue(t *testing.T) {
	rec := httptest.NewRecorder()
	err := web.Respond(context.Background(), rec, web.NewError(http.StatusBadRequest, "bad"))

	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"bad"}`, rec.Body.String())
}
