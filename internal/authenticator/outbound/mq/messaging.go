package mq

import (
	"context"
	"encoding/json"

	"github.com/shandysiswandi/authenticator/internal/authenticator/usecase"
	"github.com/shandysiswandi/authenticator/internal/pkg/instrument"
	"github.com/shandysiswandi/authenticator/internal/pkg/messaging"
	"github.com/shandysiswandi/authenticator/internal/shared/event"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const keyOfCorrelationID string = "cID"

type Messaging struct {
	client messaging.Publisher
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Publisher, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, ins: ins}
}

func (m *Messaging) PublishEnrolled(ctx context.Context, msg usecase.EnrolledEvent) error {
	return m.publish(ctx, "PublishEnrolled", event.AuthenticatorEnrolledDestination, event.AuthenticatorEnrolledMessage{
		Issuer:     msg.Descriptor.Issuer,
		Label:      msg.Descriptor.Label,
		Algorithm:  msg.Descriptor.Algorithm,
		Digits:     msg.Descriptor.Digits,
		Period:     msg.Descriptor.Period,
		OccurredAt: msg.OccurredAt,
	})
}

func (m *Messaging) PublishVerified(ctx context.Context, msg usecase.VerifiedEvent) error {
	return m.publish(ctx, "PublishVerified", event.AuthenticatorVerifiedDestination, event.AuthenticatorVerifiedMessage{
		Outcome:    msg.Outcome.String(),
		Delta:      msg.Delta,
		OccurredAt: msg.OccurredAt,
	})
}

func (m *Messaging) publish(ctx context.Context, name, destination string, payload any) (err error) {
	ctx, span := m.ins.Tracer("authenticator.outbound.mq").Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindProducer))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	cID := instrument.GetCorrelationID(ctx)
	_, err = m.client.Publish(ctx, destination, messaging.OutgoingMessage{
		Body:    body,
		Headers: []messaging.Header{{Key: keyOfCorrelationID, Value: []byte(cID)}},
	})
	return err
}
