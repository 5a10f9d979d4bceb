// Package messaging provides a broker-agnostic API for publishing domain
// events.
//
// Business code depends on the Publisher interface; the concrete broker
// (NATS, NSQ, Kafka, Google Pub/Sub, or the structured log fallback) is
// selected by configuration.
package messaging
