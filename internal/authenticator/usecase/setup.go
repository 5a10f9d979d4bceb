package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/authenticator/internal/authenticator/entity"
	"github.com/shandysiswandi/authenticator/internal/pkg/goerror"
	"github.com/shandysiswandi/authenticator/internal/pkg/session"
)

type SetupOutput struct {
	HasSecret bool
	QR        string
	URI       string
}

// Setup generates a fresh secret, persists it over any previous one and
// renders its provisioning URI as a QR code.
func (s *Usecase) Setup(ctx context.Context) (*SetupOutput, error) {
	ctx, span := s.startSpan(ctx, "Setup")
	defer span.End()

	sid, err := session.ID(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "request reached usecase without session", "error", err)
		return nil, goerror.NewServer(err)
	}

	secret, err := s.totp.GenerateSecret()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate totp secret", "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.repoStore.SaveSecret(ctx, sid, secret.Base32()); err != nil {
		slog.ErrorContext(ctx, "failed to repo save secret", "error", err)
		return nil, goerror.NewServer(err)
	}

	w := &entity.Widget{SessionID: sid, Secret: secret}

	w.URI, err = s.totp.URI(secret)
	if err != nil {
		slog.ErrorContext(ctx, "failed to build provisioning uri", "error", err)
		return nil, goerror.NewServer(err)
	}

	w.QR, err = s.qr.Render(ctx, w.URI)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render qr code", "error", err)
		return nil, goerror.NewServer(err)
	}

	// a new secret starts with a clean lockout counter
	if err := s.repoStore.ResetFailedAttempts(ctx, sid); err != nil {
		slog.WarnContext(ctx, "failed to reset failed attempts", "error", err)
	}

	s.publishEnrolled(ctx, EnrolledEvent{
		Descriptor: s.totp.Descriptor(secret),
		OccurredAt: s.clock.Now(),
	})

	slog.InfoContext(ctx, "totp secret enrolled")

	return &SetupOutput{HasSecret: w.HasSecret(), QR: w.QR, URI: w.URI}, nil
}

func (s *Usecase) publishEnrolled(ctx context.Context, ev EnrolledEvent) {
	s.goroutine.Go(ctx, func(ctx context.Context) error {
		if err := s.repoMessaging.PublishEnrolled(ctx, ev); err != nil {
			slog.ErrorContext(ctx, "failed to publish enrolled event", "error", err)
			return err
		}
		return nil
	})
}
