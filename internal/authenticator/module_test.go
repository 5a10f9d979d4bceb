package authenticator_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shandysiswandi/authenticator/internal/authenticator"
	"github.com/shandysiswandi/authenticator/internal/pkg/clock"
	"github.com/shandysiswandi/authenticator/internal/pkg/config"
	"github.com/shandysiswandi/authenticator/internal/pkg/goroutine"
	"github.com/shandysiswandi/authenticator/internal/pkg/instrument"
	"github.com/shandysiswandi/authenticator/internal/pkg/kvstore"
	"github.com/shandysiswandi/authenticator/internal/pkg/messaging"
	"github.com/shandysiswandi/authenticator/internal/pkg/otp"
	"github.com/shandysiswandi/authenticator/internal/pkg/qrcode"
	"github.com/shandysiswandi/authenticator/internal/pkg/router"
	"github.com/shandysiswandi/authenticator/internal/pkg/session"
	"github.com/shandysiswandi/authenticator/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

type staticID string

func (s staticID) Generate() string { return string(s) }

func TestNew_MissingDependency(t *testing.T) {
	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	err = authenticator.New(authenticator.Dependency{Validator: v})
	assert.Error(t, err)
}

func TestModule_EndToEnd(t *testing.T) {
	cfg, err := config.NewViperFromBytes("yaml", []byte("{}"))
	require.NoError(t, err)
	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	clk := &clock.Fixed{T: time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)}
	kv := kvstore.NewMemory(clk.Now)
	totp := otp.NewTOTP(otp.Config{Issuer: "MyReactApp", Label: "user@example.com"})
	gm := goroutine.NewManager(8)
	r := router.NewRouter(router.Config{
		Config:     cfg,
		UUID:       staticID("cid"),
		Instrument: instrument.NewNoop(),
		Session:    router.SessionConfig{ID: staticID("generated")},
	})

	require.NoError(t, authenticator.New(authenticator.Dependency{
		KVStore:    kv,
		Messaging:  messaging.NewLog(),
		Goroutine:  gm,
		Router:     r,
		Config:     cfg,
		Instrument: instrument.NewNoop(),
		Clock:      clk,
		Totp:       totp,
		QRCode:     qrcode.NewPNG(128),
		Validator:  v,
	}))

	send := func(method, path, body string) envelope {
		t.Helper()
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(session.HeaderSessionID, "e2e")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var env envelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
		return env
	}

	env := send(http.MethodPost, "/api/v1/authenticator/verify", `{"code":"123456"}`)
	assert.Equal(t, "no_secret", env.Data["outcome"])

	env = send(http.MethodPost, "/api/v1/authenticator/setup", "")
	assert.Equal(t, true, env.Data["has_secret"])
	assert.True(t, strings.HasPrefix(env.Data["qr"].(string), "data:image/png;base64,"))

	stored, err := kv.Get(t.Context(), session.Key("e2e", "totp-secret"))
	require.NoError(t, err)
	secret, err := otp.SecretFromBase32(stored)
	require.NoError(t, err)
	assert.Equal(t, stored, secret.Base32())

	env = send(http.MethodGet, "/api/v1/authenticator", "")
	assert.Equal(t, true, env.Data["has_secret"])

	code, err := totp.GenerateCode(secret, clk.Now())
	require.NoError(t, err)
	env = send(http.MethodPost, "/api/v1/authenticator/verify", `{"code":"`+code+`"}`)
	assert.Equal(t, "valid", env.Data["outcome"])
	assert.Equal(t, "Success! Code verified", env.Message)

	clk.Add(10 * time.Minute)
	env = send(http.MethodPost, "/api/v1/authenticator/verify", `{"code":"`+code+`"}`)
	assert.Equal(t, "invalid", env.Data["outcome"])
	assert.Equal(t, "Invalid code", env.Message)

	require.NoError(t, gm.Wait())
}
