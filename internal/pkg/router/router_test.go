package router_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shandysiswandi/authenticator/internal/pkg/config"
	"github.com/shandysiswandi/authenticator/internal/pkg/goerror"
	"github.com/shandysiswandi/authenticator/internal/pkg/instrument"
	"github.com/shandysiswandi/authenticator/internal/pkg/router"
	"github.com/shandysiswandi/authenticator/internal/pkg/session"
	"github.com/shandysiswandi/authenticator/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticID string

func (s staticID) Generate() string { return string(s) }

type payload struct {
	Value string `json:"value"`
}

func newRouter(t *testing.T, yaml string, health func(context.Context) error) *router.Router {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(yaml))
	require.NoError(t, err)

	return router.NewRouter(router.Config{
		Config:     cfg,
		UUID:       staticID("cid-generated"),
		Instrument: instrument.NewNoop(),
		Session:    router.SessionConfig{CookieName: "sid", ID: staticID("session-generated")},
		Health:     health,
	})
}

func do(t *testing.T, h http.Handler, req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var body map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestRouter_Success(t *testing.T) {
	r := newRouter(t, "{}", nil)
	r.GET("/echo", func(req *router.Request) (any, error) {
		sid, err := session.ID(req.Context())
		if err != nil {
			return nil, err
		}
		return payload{Value: sid}, nil
	})

	rec, body := do(t, r, httptest.NewRequest(http.MethodGet, "/echo", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "request has been successfully", body["message"])
	assert.Equal(t, map[string]any{"value": "session-generated"}, body["data"])
	assert.Equal(t, "cid-generated", rec.Header().Get(router.HeaderCorrelationID))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sid", cookies[0].Name)
	assert.Equal(t, "session-generated", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestRouter_SessionReuse(t *testing.T) {
	r := newRouter(t, "{}", nil)
	r.GET("/echo", func(req *router.Request) (any, error) {
		sid, _ := session.ID(req.Context())
		return payload{Value: sid}, nil
	})

	req := httptest.NewRequest(http.MethodGet, "/echo", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "from-cookie"})
	rec, body := do(t, r, req)
	assert.Equal(t, map[string]any{"value": "from-cookie"}, body["data"])
	assert.Empty(t, rec.Result().Cookies())

	req = httptest.NewRequest(http.MethodGet, "/echo", nil)
	req.Header.Set(session.HeaderSessionID, "from-header")
	req.Header.Set(router.HeaderCorrelationID, "cid-client")
	rec, body = do(t, r, req)
	assert.Equal(t, map[string]any{"value": "from-header"}, body["data"])
	assert.Equal(t, "cid-client", rec.Header().Get(router.HeaderCorrelationID))

	req = httptest.NewRequest(http.MethodGet, "/echo", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "bad value;"})
	_, body = do(t, r, req)
	assert.Equal(t, map[string]any{"value": "session-generated"}, body["data"])
}

func TestRouter_Errors(t *testing.T) {
	r := newRouter(t, "{}", nil)
	r.POST("/business", func(*router.Request) (any, error) {
		return nil, goerror.NewBusiness("Too many attempts", goerror.CodeTooManyRequest)
	})
	r.POST("/validation", func(*router.Request) (any, error) {
		return nil, goerror.NewInvalidInput(validator.V10ValidationError{"code": "code is a required field"})
	})
	r.POST("/plain", func(*router.Request) (any, error) {
		return nil, errors.New("leak")
	})
	r.POST("/decode", func(req *router.Request) (any, error) {
		var p payload
		if err := req.DecodeBody(&p); err != nil {
			return nil, err
		}
		return p, nil
	})
	r.POST("/panic", func(*router.Request) (any, error) {
		panic("boom")
	})

	tests := []struct {
		path   string
		body   string
		status int
		msg    string
	}{
		{"/business", "", http.StatusTooManyRequests, "Too many attempts"},
		{"/validation", "", http.StatusUnprocessableEntity, "Validation error"},
		{"/plain", "", http.StatusInternalServerError, "Internal server error"},
		{"/decode", `{"value":"a","extra":1}`, http.StatusBadRequest, "Invalid request body"},
		{"/decode", `{"value":"a"}{}`, http.StatusBadRequest, "Invalid request body"},
		{"/panic", "", http.StatusInternalServerError, "Internal server error"},
		{"/missing", "", http.StatusNotFound, "endpoint not found"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			rec, body := do(t, r, req)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.msg, body["message"])
		})
	}

	rec, body := do(t, r, httptest.NewRequest(http.MethodPost, "/validation", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, map[string]any{"code": "code is a required field"}, body["error"])
}

func TestRouter_Maintenance(t *testing.T) {
	r := newRouter(t, "app:\n  maintenance:\n    endpoints: \"/blocked\"\n", nil)
	r.GET("/blocked", func(*router.Request) (any, error) { return payload{}, nil })
	r.GET("/open", func(*router.Request) (any, error) { return payload{}, nil })

	rec, _ := do(t, r, httptest.NewRequest(http.MethodGet, "/blocked", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec, _ = do(t, r, httptest.NewRequest(http.MethodGet, "/open", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_Health(t *testing.T) {
	healthy := newRouter(t, "{}", nil)
	rec, body := do(t, healthy, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["message"])
	assert.Empty(t, rec.Result().Cookies())

	sick := newRouter(t, "{}", func(context.Context) error { return errors.New("redis down") })
	rec, body = do(t, sick, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unhealthy", body["message"])
}

func TestRouter_GETRaw(t *testing.T) {
	r := newRouter(t, "{}", nil)
	r.GETRaw("/", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		sid, _ := session.ID(req.Context())
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(sid))
	}))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "session-generated", rec.Body.String())
}
