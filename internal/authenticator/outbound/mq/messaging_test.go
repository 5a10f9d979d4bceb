package mq_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/shandysiswandi/authenticator/internal/authenticator/entity"
	"github.com/shandysiswandi/authenticator/internal/authenticator/outbound/mq"
	"github.com/shandysiswandi/authenticator/internal/authenticator/usecase"
	"github.com/shandysiswandi/authenticator/internal/pkg/instrument"
	"github.com/shandysiswandi/authenticator/internal/pkg/messaging"
	"github.com/shandysiswandi/authenticator/internal/pkg/otp"
	"github.com/shandysiswandi/authenticator/internal/shared/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sent struct {
	destination string
	msg         messaging.OutgoingMessage
}

type recordingPublisher struct {
	sent []sent
	err  error
}

func (r *recordingPublisher) Publish(_ context.Context, destination string, msg messaging.OutgoingMessage) (messaging.PublishResult, error) {
	if r.err != nil {
		return messaging.PublishResult{}, r.err
	}
	r.sent = append(r.sent, sent{destination: destination, msg: msg})
	return messaging.PublishResult{Topic: destination}, nil
}

func (r *recordingPublisher) Close() error { return nil }

func TestPublishEnrolled(t *testing.T) {
	pub := &recordingPublisher{}
	m := mq.NewMessaging(pub, instrument.NewNoop())
	ctx := instrument.SetCorrelationID(context.Background(), "cid-9")
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	err := m.PublishEnrolled(ctx, usecase.EnrolledEvent{
		Descriptor: otp.Descriptor{
			Issuer: "MyReactApp", Label: "user@example.com", Algorithm: "SHA1",
			Digits: 6, Period: 30, Secret: "JBSWY3DPEHPK3PXP",
		},
		OccurredAt: at,
	})
	require.NoError(t, err)
	require.Len(t, pub.sent, 1)

	got := pub.sent[0]
	assert.Equal(t, event.AuthenticatorEnrolledDestination, got.destination)
	assert.Equal(t, []messaging.Header{{Key: "cID", Value: []byte("cid-9")}}, got.msg.Headers)
	assert.NotContains(t, string(got.msg.Body), "JBSWY3DPEHPK3PXP")

	var body event.AuthenticatorEnrolledMessage
	require.NoError(t, json.Unmarshal(got.msg.Body, &body))
	assert.Equal(t, event.AuthenticatorEnrolledMessage{
		Issuer: "MyReactApp", Label: "user@example.com", Algorithm: "SHA1",
		Digits: 6, Period: 30, OccurredAt: at,
	}, body)
}

func TestPublishVerified(t *testing.T) {
	pub := &recordingPublisher{}
	m := mq.NewMessaging(pub, instrument.NewNoop())

	require.NoError(t, m.PublishVerified(context.Background(), usecase.VerifiedEvent{
		Outcome: entity.OutcomeValid,
		Delta:   lo.ToPtr(-1),
	}))
	require.Len(t, pub.sent, 1)
	assert.Equal(t, event.AuthenticatorVerifiedDestination, pub.sent[0].destination)
	assert.JSONEq(t, `{"outcome":"valid","delta":-1,"occurred_at":"0001-01-01T00:00:00Z"}`, string(pub.sent[0].msg.Body))

	pub.err = errors.New("broker down")
	assert.Error(t, m.PublishVerified(context.Background(), usecase.VerifiedEvent{Outcome: entity.OutcomeInvalid}))
}
