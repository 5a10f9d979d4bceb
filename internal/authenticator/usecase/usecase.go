package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shandysiswandi/authenticator/internal/authenticator/entity"
	"github.com/shandysiswandi/authenticator/internal/pkg/clock"
	"github.com/shandysiswandi/authenticator/internal/pkg/config"
	"github.com/shandysiswandi/authenticator/internal/pkg/goerror"
	"github.com/shandysiswandi/authenticator/internal/pkg/goroutine"
	"github.com/shandysiswandi/authenticator/internal/pkg/instrument"
	"github.com/shandysiswandi/authenticator/internal/pkg/otp"
	"github.com/shandysiswandi/authenticator/internal/pkg/qrcode"
	"github.com/shandysiswandi/authenticator/internal/pkg/session"
	"github.com/shandysiswandi/authenticator/internal/pkg/validator"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type EnrolledEvent struct {
	Descriptor otp.Descriptor
	OccurredAt time.Time
}

type VerifiedEvent struct {
	Outcome    entity.Outcome
	Delta      *int
	OccurredAt time.Time
}

type repoMessaging interface {
	PublishEnrolled(ctx context.Context, msg EnrolledEvent) error
	PublishVerified(ctx context.Context, msg VerifiedEvent) error
}

type repoStore interface {
	// GetSecret returns the persisted Base32 secret or goerror.ErrNotFound.
	GetSecret(ctx context.Context, sessionID string) (string, error)
	SaveSecret(ctx context.Context, sessionID, secret string) error

	FailedAttempts(ctx context.Context, sessionID string) (int64, error)
	IncrFailedAttempts(ctx context.Context, sessionID string, window time.Duration) (int64, error)
	ResetFailedAttempts(ctx context.Context, sessionID string) error
}

type Usecase struct {
	repoStore     repoStore
	repoMessaging repoMessaging
	validator     validator.Validator
	cfg           config.Config
	totp          otp.OTP
	qr            qrcode.Renderer
	clock         clock.Clocker
	ins           instrument.Instrumentation
	goroutine     *goroutine.Manager

	outcomes metric.Int64Counter
}

type Dependency struct {
	RepoStore     repoStore
	RepoMessaging repoMessaging
	Validator     validator.Validator
	Config        config.Config
	Totp          otp.OTP
	QRCode        qrcode.Renderer
	Clock         clock.Clocker
	Instrument    instrument.Instrumentation
	Goroutine     *goroutine.Manager
}

func New(dep Dependency) *Usecase {
	outcomes, err := dep.Instrument.Meter("authenticator.usecase").Int64Counter(
		"authenticator.verify.outcomes",
		metric.WithDescription("Number of TOTP verifications by outcome"),
	)
	if err != nil {
		slog.Error("failed to create verify outcome counter", "error", err)
	}

	return &Usecase{
		repoStore:     dep.RepoStore,
		repoMessaging: dep.RepoMessaging,
		validator:     dep.Validator,
		cfg:           dep.Config,
		totp:          dep.Totp,
		qr:            dep.QRCode,
		clock:         dep.Clock,
		ins:           dep.Instrument,
		goroutine:     dep.Goroutine,
		outcomes:      outcomes,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("authenticator.usecase").Start(ctx, name)
}

// loadWidget rebuilds the session's widget from the persisted secret. A
// missing secret yields an empty widget; a malformed one is a server error.
func (s *Usecase) loadWidget(ctx context.Context) (*entity.Widget, error) {
	sid, err := session.ID(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "request reached usecase without session", "error", err)
		return nil, goerror.NewServer(err)
	}

	w := &entity.Widget{SessionID: sid}

	text, err := s.repoStore.GetSecret(ctx, sid)
	if errors.Is(err, goerror.ErrNotFound) {
		return w, nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get secret", "error", err)
		return nil, goerror.NewServer(err)
	}

	secret, err := otp.SecretFromBase32(text)
	if err != nil {
		slog.ErrorContext(ctx, "stored secret is not valid base32", "error", err)
		return nil, goerror.NewServer(err)
	}
	w.Secret = secret

	return w, nil
}
