package publish

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/zinc-sig/ghost-allure/internal/webhook"
	"github.com/zinc-sig/ghost-allure/pkg/model"
	"github.com/zinc-sig/ghost-allure/pkg/sink"
)

var _ sink.Sink = (*NotifySink)(nil)

// NotifySink posts every persisted result document to a webhook. Delivery
// failures are logged and remembered but never fail persistence.
type NotifySink struct {
	inner  sink.Sink
	client *webhook.Client
	logger logrus.FieldLogger

	mu      sync.Mutex
	sent    int
	lastErr error
}

// Notify wraps inner.
func Notify(inner sink.Sink, client *webhook.Client, logger logrus.FieldLogger) *NotifySink {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &NotifySink{
		inner:  inner,
		client: client,
		logger: logger.WithField("webhook", client.URL()),
	}
}

func (n *NotifySink) PersistResult(result *model.TestResult) error {
	if err := n.inner.PersistResult(result); err != nil {
		return err
	}

	err := n.client.Send(context.Background(), result)

	n.mu.Lock()
	defer n.mu.Unlock()
	n.lastErr = err
	if err != nil {
		n.logger.WithError(err).WithField("uuid", result.UUID).Warn("failed to deliver result to webhook")
		return nil
	}
	n.sent++
	n.logger.WithField("uuid", result.UUID).Debug("delivered result to webhook")
	return nil
}

func (n *NotifySink) PersistAttachment(content []byte, extension string) (string, error) {
	return n.inner.PersistAttachment(content, extension)
}

// Delivered returns the number of results delivered and the error of the
// most recent delivery attempt.
func (n *NotifySink) Delivered() (int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.sent, n.lastErr
}
