package usecase_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/authenticator/internal/authenticator/entity"
	"github.com/shandysiswandi/authenticator/internal/authenticator/usecase"
	"github.com/shandysiswandi/authenticator/internal/pkg/clock"
	"github.com/shandysiswandi/authenticator/internal/pkg/config"
	"github.com/shandysiswandi/authenticator/internal/pkg/goerror"
	"github.com/shandysiswandi/authenticator/internal/pkg/goroutine"
	"github.com/shandysiswandi/authenticator/internal/pkg/instrument"
	"github.com/shandysiswandi/authenticator/internal/pkg/otp"
	"github.com/shandysiswandi/authenticator/internal/pkg/qrcode"
	"github.com/shandysiswandi/authenticator/internal/pkg/session"
	"github.com/shandysiswandi/authenticator/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSession = "session-1"

type fakeStore struct {
	mu       sync.Mutex
	secrets  map[string]string
	attempts map[string]int64
	getErr   error
	saveErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{secrets: map[string]string{}, attempts: map[string]int64{}}
}

func (f *fakeStore) GetSecret(_ context.Context, sid string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return "", f.getErr
	}
	s, ok := f.secrets[sid]
	if !ok {
		return "", goerror.ErrNotFound
	}
	return s, nil
}

func (f *fakeStore) SaveSecret(_ context.Context, sid, secret string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.secrets[sid] = secret
	return nil
}

func (f *fakeStore) FailedAttempts(_ context.Context, sid string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempts[sid], nil
}

func (f *fakeStore) IncrFailedAttempts(_ context.Context, sid string, _ time.Duration) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts[sid]++
	return f.attempts[sid], nil
}

func (f *fakeStore) ResetFailedAttempts(_ context.Context, sid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.attempts, sid)
	return nil
}

type fakeMessaging struct {
	mu       sync.Mutex
	enrolled []usecase.EnrolledEvent
	verified []usecase.VerifiedEvent
}

func (f *fakeMessaging) PublishEnrolled(_ context.Context, msg usecase.EnrolledEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enrolled = append(f.enrolled, msg)
	return nil
}

func (f *fakeMessaging) PublishVerified(_ context.Context, msg usecase.VerifiedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verified = append(f.verified, msg)
	return nil
}

// spyOTP counts Validate calls on top of the real implementation.
type spyOTP struct {
	otp.OTP
	validateCalls int
}

func (s *spyOTP) Validate(code string, secret otp.Secret, at time.Time) (int, bool) {
	s.validateCalls++
	return s.OTP.Validate(code, secret, at)
}

type failingQR struct{}

func (failingQR) Render(context.Context, string) (string, error) {
	return "", errors.New("encoder exploded")
}

type fixture struct {
	uc    *usecase.Usecase
	store *fakeStore
	msg   *fakeMessaging
	totp  *spyOTP
	clock *clock.Fixed
	gm    *goroutine.Manager
}

func newFixture(t *testing.T, yaml string, qr qrcode.Renderer) *fixture {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(yaml))
	require.NoError(t, err)
	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	if qr == nil {
		qr = qrcode.NewPNG(128)
	}

	f := &fixture{
		store: newFakeStore(),
		msg:   &fakeMessaging{},
		totp:  &spyOTP{OTP: otp.NewTOTP(otp.Config{Issuer: "MyReactApp", Label: "user@example.com"})},
		clock: &clock.Fixed{T: time.Date(2026, 3, 1, 12, 0, 10, 0, time.UTC)},
		gm:    goroutine.NewManager(4),
	}
	f.uc = usecase.New(usecase.Dependency{
		RepoStore:     f.store,
		RepoMessaging: f.msg,
		Validator:     v,
		Config:        cfg,
		Totp:          f.totp,
		QRCode:        qr,
		Clock:         f.clock,
		Instrument:    instrument.NewNoop(),
		Goroutine:     f.gm,
	})
	return f
}

func (f *fixture) storedSecret(t *testing.T) otp.Secret {
	t.Helper()

	text, ok := f.store.secrets[testSession]
	require.True(t, ok)
	secret, err := otp.SecretFromBase32(text)
	require.NoError(t, err)
	return secret
}

// wrongCode returns a code that matches none of the accepted windows.
func (f *fixture) wrongCode(t *testing.T, secret otp.Secret) string {
	t.Helper()

	accepted := map[string]struct{}{}
	for _, d := range []time.Duration{-30 * time.Second, 0, 30 * time.Second} {
		c, err := f.totp.GenerateCode(secret, f.clock.Now().Add(d))
		require.NoError(t, err)
		accepted[c] = struct{}{}
	}
	for _, candidate := range []string{"000000", "111111", "222222", "333333"} {
		if _, hit := accepted[candidate]; !hit {
			return candidate
		}
	}
	t.Fatal("no wrong code candidate")
	return ""
}

func sessionCtx() context.Context {
	return session.WithID(context.Background(), testSession)
}

func statusOf(t *testing.T, err error) int {
	t.Helper()

	ge, ok := goerror.As(err)
	require.True(t, ok, "expected goerror, got %v", err)
	return ge.StatusCode()
}

func TestVerify_NoSecret(t *testing.T) {
	f := newFixture(t, "{}", nil)

	for _, code := range []string{"", "123456", "abc", "000000"} {
		out, err := f.uc.Verify(sessionCtx(), usecase.VerifyInput{Code: code})
		require.NoError(t, err)
		assert.Equal(t, entity.OutcomeNoSecret, out.Outcome)
		assert.Nil(t, out.Delta)
	}
	assert.Zero(t, f.totp.validateCalls)

	require.NoError(t, f.gm.Wait())
	assert.Len(t, f.msg.verified, 4)
}

func TestSetup(t *testing.T) {
	f := newFixture(t, "{}", nil)

	out, err := f.uc.Setup(sessionCtx())
	require.NoError(t, err)

	assert.True(t, out.HasSecret)
	assert.True(t, strings.HasPrefix(out.QR, qrcode.DataURIPrefix))
	assert.Greater(t, len(out.QR), len(qrcode.DataURIPrefix))
	assert.True(t, strings.HasPrefix(out.URI, "otpauth://totp/MyReactApp:user@example.com?"), out.URI)

	secret := f.storedSecret(t)
	assert.Len(t, secret, int(otp.DefaultSecretSize))
	assert.Contains(t, out.URI, "secret="+secret.Base32())

	load, err := f.uc.Load(sessionCtx())
	require.NoError(t, err)
	assert.True(t, load.HasSecret)

	require.NoError(t, f.gm.Wait())
	require.Len(t, f.msg.enrolled, 1)
	assert.Equal(t, "MyReactApp", f.msg.enrolled[0].Descriptor.Issuer)
	assert.Equal(t, f.clock.Now(), f.msg.enrolled[0].OccurredAt)
}

func TestSetup_Overwrites(t *testing.T) {
	f := newFixture(t, "{}", nil)

	_, err := f.uc.Setup(sessionCtx())
	require.NoError(t, err)
	first := f.storedSecret(t)

	_, err = f.uc.Setup(sessionCtx())
	require.NoError(t, err)
	assert.NotEqual(t, first, f.storedSecret(t))
}

func TestSetupThenVerify(t *testing.T) {
	f := newFixture(t, "{}", nil)

	_, err := f.uc.Setup(sessionCtx())
	require.NoError(t, err)
	secret := f.storedSecret(t)

	current, err := f.totp.GenerateCode(secret, f.clock.Now())
	require.NoError(t, err)
	out, err := f.uc.Verify(sessionCtx(), usecase.VerifyInput{Code: " " + current + " "})
	require.NoError(t, err)
	assert.Equal(t, entity.OutcomeValid, out.Outcome)
	require.NotNil(t, out.Delta)
	assert.Equal(t, 0, *out.Delta)

	previous, err := f.totp.GenerateCode(secret, f.clock.Now().Add(-30*time.Second))
	require.NoError(t, err)
	if previous != current {
		out, err = f.uc.Verify(sessionCtx(), usecase.VerifyInput{Code: previous})
		require.NoError(t, err)
		assert.Equal(t, entity.OutcomeValid, out.Outcome)
		assert.Equal(t, -1, *out.Delta)
	}

	out, err = f.uc.Verify(sessionCtx(), usecase.VerifyInput{Code: f.wrongCode(t, secret)})
	require.NoError(t, err)
	assert.Equal(t, entity.OutcomeInvalid, out.Outcome)
	assert.Nil(t, out.Delta)

	out, err = f.uc.Verify(sessionCtx(), usecase.VerifyInput{Code: "12ab56"})
	require.NoError(t, err)
	assert.Equal(t, entity.OutcomeInvalid, out.Outcome)

	// out of window
	f.clock.Add(5 * time.Minute)
	out, err = f.uc.Verify(sessionCtx(), usecase.VerifyInput{Code: current})
	require.NoError(t, err)
	assert.Equal(t, entity.OutcomeInvalid, out.Outcome)
}

func TestVerify_PersistedSecret(t *testing.T) {
	f := newFixture(t, "{}", nil)

	secret, err := f.totp.GenerateSecret()
	require.NoError(t, err)
	f.store.secrets[testSession] = secret.Base32()

	code, err := f.totp.GenerateCode(secret, f.clock.Now())
	require.NoError(t, err)

	out, err := f.uc.Verify(sessionCtx(), usecase.VerifyInput{Code: code})
	require.NoError(t, err)
	assert.Equal(t, entity.OutcomeValid, out.Outcome)

	// other sessions stay unenrolled
	out, err = f.uc.Verify(session.WithID(context.Background(), "session-2"), usecase.VerifyInput{Code: code})
	require.NoError(t, err)
	assert.Equal(t, entity.OutcomeNoSecret, out.Outcome)
}

func TestLockout(t *testing.T) {
	f := newFixture(t, "modules:\n  authenticator:\n    verify:\n      max_attempts: 2\n", nil)

	_, err := f.uc.Setup(sessionCtx())
	require.NoError(t, err)
	secret := f.storedSecret(t)
	wrong := f.wrongCode(t, secret)

	for range 2 {
		out, err := f.uc.Verify(sessionCtx(), usecase.VerifyInput{Code: wrong})
		require.NoError(t, err)
		assert.Equal(t, entity.OutcomeInvalid, out.Outcome)
	}

	_, err = f.uc.Verify(sessionCtx(), usecase.VerifyInput{Code: wrong})
	assert.Equal(t, 429, statusOf(t, err))

	// re-enrolling clears the counter
	_, err = f.uc.Setup(sessionCtx())
	require.NoError(t, err)
	secret = f.storedSecret(t)
	code, err := f.totp.GenerateCode(secret, f.clock.Now())
	require.NoError(t, err)

	out, err := f.uc.Verify(sessionCtx(), usecase.VerifyInput{Code: code})
	require.NoError(t, err)
	assert.Equal(t, entity.OutcomeValid, out.Outcome)
	assert.Zero(t, f.store.attempts[testSession])
}

func TestErrors(t *testing.T) {
	t.Run("malformed stored secret", func(t *testing.T) {
		f := newFixture(t, "{}", nil)
		f.store.secrets[testSession] = "not base32 !!"

		_, err := f.uc.Load(sessionCtx())
		assert.Equal(t, 500, statusOf(t, err))
	})

	t.Run("store read failure", func(t *testing.T) {
		f := newFixture(t, "{}", nil)
		f.store.getErr = errors.New("redis down")

		_, err := f.uc.Verify(sessionCtx(), usecase.VerifyInput{Code: "123456"})
		assert.Equal(t, 500, statusOf(t, err))
	})

	t.Run("store write failure", func(t *testing.T) {
		f := newFixture(t, "{}", nil)
		f.store.saveErr = errors.New("redis down")

		_, err := f.uc.Setup(sessionCtx())
		assert.Equal(t, 500, statusOf(t, err))
	})

	t.Run("qr failure", func(t *testing.T) {
		f := newFixture(t, "{}", failingQR{})

		_, err := f.uc.Setup(sessionCtx())
		assert.Equal(t, 500, statusOf(t, err))
	})

	t.Run("canceled render", func(t *testing.T) {
		f := newFixture(t, "{}", nil)
		ctx, cancel := context.WithCancel(sessionCtx())
		cancel()

		_, err := f.uc.Setup(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("no session", func(t *testing.T) {
		f := newFixture(t, "{}", nil)

		_, err := f.uc.Load(context.Background())
		assert.ErrorIs(t, err, session.ErrNoSession)
		_, err = f.uc.Setup(context.Background())
		assert.ErrorIs(t, err, session.ErrNoSession)
	})
}
