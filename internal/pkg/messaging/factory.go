package messaging

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	// DriverLog writes events to the structured logger only.
	DriverLog = "log"
	// DriverNSQ selects the NSQ backend.
	DriverNSQ = "nsq"
	// DriverNATS selects the NATS backend.
	DriverNATS = "nats"
	// DriverKafka selects the Kafka backend.
	DriverKafka = "kafka"
	// DriverGooglePubSub selects the Google Pub/Sub backend.
	DriverGooglePubSub = "google-pubsub"
)

// ErrUnknownDriver indicates an unsupported messaging driver.
var ErrUnknownDriver = errors.New("messaging: unknown driver")

// FactoryOptions groups config for supported messaging backends.
type FactoryOptions struct {
	NSQ    NSQConfig
	Kafka  KafkaConfig
	NATS   NATSConfig
	PubSub PubSubConfig
}

// NewFromDriver constructs a Publisher by driver name. An empty driver selects the log publisher.
func NewFromDriver(ctx context.Context, driver string, opts FactoryOptions) (Publisher, error) {
	switch strings.TrimSpace(driver) {
	case "", DriverLog:
		return NewLog(), nil
	case DriverNSQ:
		return publisherOrNil(NewNSQ(opts.NSQ))
	case DriverKafka:
		return publisherOrNil(NewKafka(opts.Kafka))
	case DriverNATS:
		return publisherOrNil(NewNATS(opts.NATS))
	case DriverGooglePubSub:
		return publisherOrNil(NewPubSub(ctx, opts.PubSub))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
	}
}

// publisherOrNil keeps a failed constructor from yielding a typed-nil interface.
func publisherOrNil[P Publisher](p P, err error) (Publisher, error) {
	if err != nil {
		return nil, err
	}
	return p, nil
}
