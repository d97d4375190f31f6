package jetstream

import (
	"errors"
	"time"

	nats "github.com/nats-io/nats.go"
)

const (
	StreamName       = "SIDEKICK"
	ExchangePrefix   = "sidekick.exchange."
	ExchangeWildcard = ExchangePrefix + ">"
	ConsumerName     = "sidekick-recorder"
)

func EnsureStream(js nats.JetStreamContext) error {
	_, err := js.AddStream(&nats.StreamConfig{
		Name:      StreamName,
		Subjects:  []string{"sidekick.>"},
		Storage:   nats.FileStorage,
		MaxAge:    24 * time.Hour,
		Retention: nats.WorkQueuePolicy,
	})
	if err != nil && !errors.Is(err, nats.ErrStreamNameAlreadyInUse) {
		return err
	}
	return nil
}

func ExchangeSubject(requestID string) string {
	return ExchangePrefix + requestID
}
