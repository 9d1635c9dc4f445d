// Package publish decorates a sink.Sink so every file it persists is also
// delivered elsewhere: mirrored to object storage or announced to a webhook.
package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/zinc-sig/ghost-allure/internal/upload"
	"github.com/zinc-sig/ghost-allure/pkg/model"
	"github.com/zinc-sig/ghost-allure/pkg/sink"
)

// DefaultUploadTimeout bounds a single mirrored upload.
const DefaultUploadTimeout = 2 * time.Minute

var _ sink.Sink = (*MirrorSink)(nil)

// MirrorSink uploads each file after the inner sink has persisted it, under
// the same file name. Upload failures are returned to the caller.
type MirrorSink struct {
	inner    sink.Sink
	provider upload.Provider
	timeout  time.Duration
	logger   logrus.FieldLogger
}

// Mirror wraps inner. A zero timeout means DefaultUploadTimeout.
func Mirror(inner sink.Sink, provider upload.Provider, timeout time.Duration, logger logrus.FieldLogger) *MirrorSink {
	if timeout <= 0 {
		timeout = DefaultUploadTimeout
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &MirrorSink{
		inner:    inner,
		provider: provider,
		timeout:  timeout,
		logger:   logger.WithField("provider", provider.Name()),
	}
}

func (m *MirrorSink) PersistResult(result *model.TestResult) error {
	if err := m.inner.PersistResult(result); err != nil {
		return err
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal test result %s: %w", result.UUID, err)
	}
	return m.upload(data, sink.ResultFileName(result.UUID))
}

func (m *MirrorSink) PersistAttachment(content []byte, extension string) (string, error) {
	name, err := m.inner.PersistAttachment(content, extension)
	if err != nil {
		return "", err
	}
	if err := m.upload(content, name); err != nil {
		return "", err
	}
	return name, nil
}

func (m *MirrorSink) upload(data []byte, name string) error {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	if err := m.provider.Upload(ctx, bytes.NewReader(data), name); err != nil {
		return fmt.Errorf("failed to mirror %s: %w", name, err)
	}
	m.logger.WithFields(logrus.Fields{"file": name, "bytes": len(data)}).Debug("mirrored file")
	return nil
}
