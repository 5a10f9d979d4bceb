package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/samber/lo"
	"github.com/shandysiswandi/authenticator/internal/authenticator/entity"
	"github.com/shandysiswandi/authenticator/internal/pkg/goerror"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type VerifyInput struct {
	Code string `json:"code" validate:"required,otp_code"`
}

type VerifyOutput struct {
	Outcome entity.Outcome
	// Delta is the matched step offset; set only for OutcomeValid.
	Delta *int
}

// Verify checks a code against the session's secret. Without a secret the
// outcome is no_secret regardless of the code, and the validator is not run.
func (s *Usecase) Verify(ctx context.Context, in VerifyInput) (*VerifyOutput, error) {
	ctx, span := s.startSpan(ctx, "Verify")
	defer span.End()

	w, err := s.loadWidget(ctx)
	if err != nil {
		return nil, err
	}

	if !w.HasSecret() {
		return s.finishVerify(ctx, &VerifyOutput{Outcome: entity.OutcomeNoSecret}), nil
	}

	maxAttempts := s.cfg.GetInt("modules.authenticator.verify.max_attempts")
	if maxAttempts > 0 {
		n, err := s.repoStore.FailedAttempts(ctx, w.SessionID)
		if err != nil {
			slog.ErrorContext(ctx, "failed to repo get failed attempts", "error", err)
			return nil, goerror.NewServer(err)
		}
		if n >= int64(maxAttempts) {
			slog.WarnContext(ctx, "verification locked out", "failed_attempts", n)
			return nil, goerror.NewBusiness("Too many failed attempts, try again later", goerror.CodeTooManyRequest)
		}
	}

	in.Code = strings.TrimSpace(in.Code)

	out := &VerifyOutput{Outcome: entity.OutcomeInvalid}
	if err := s.validator.Validate(in); err == nil {
		if delta, ok := s.totp.Validate(in.Code, w.Secret, s.clock.Now()); ok {
			out = &VerifyOutput{Outcome: entity.OutcomeValid, Delta: lo.ToPtr(delta)}
		}
	}

	if maxAttempts > 0 {
		s.trackAttempt(ctx, w.SessionID, out.Outcome)
	}

	return s.finishVerify(ctx, out), nil
}

// trackAttempt updates the lockout counter. Failures are logged only: the
// outcome has already been decided.
func (s *Usecase) trackAttempt(ctx context.Context, sid string, outcome entity.Outcome) {
	if outcome == entity.OutcomeValid {
		if err := s.repoStore.ResetFailedAttempts(ctx, sid); err != nil {
			slog.WarnContext(ctx, "failed to reset failed attempts", "error", err)
		}
		return
	}

	window := s.cfg.GetMinute("modules.authenticator.verify.window_minutes")
	if _, err := s.repoStore.IncrFailedAttempts(ctx, sid, window); err != nil {
		slog.WarnContext(ctx, "failed to increment failed attempts", "error", err)
	}
}

func (s *Usecase) finishVerify(ctx context.Context, out *VerifyOutput) *VerifyOutput {
	if s.outcomes != nil {
		s.outcomes.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", out.Outcome.String())))
	}

	slog.InfoContext(ctx, "totp verification", "outcome", out.Outcome.String())

	ev := VerifiedEvent{Outcome: out.Outcome, Delta: out.Delta, OccurredAt: s.clock.Now()}
	s.goroutine.Go(ctx, func(ctx context.Context) error {
		if err := s.repoMessaging.PublishVerified(ctx, ev); err != nil {
			slog.ErrorContext(ctx, "failed to publish verified event", "error", err)
			return err
		}
		return nil
	})

	return out
}
