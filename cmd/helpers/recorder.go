package helpers

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/zinc-sig/ghost-allure/cmd/config"
	appconfig "github.com/zinc-sig/ghost-allure/internal/config"
	"github.com/zinc-sig/ghost-allure/internal/meta"
	"github.com/zinc-sig/ghost-allure/internal/publish"
	"github.com/zinc-sig/ghost-allure/internal/runner"
	"github.com/zinc-sig/ghost-allure/internal/upload"
	"github.com/zinc-sig/ghost-allure/internal/webhook"
	"github.com/zinc-sig/ghost-allure/pkg/allure"
	"github.com/zinc-sig/ghost-allure/pkg/attachment"
	"github.com/zinc-sig/ghost-allure/pkg/model"
	"github.com/zinc-sig/ghost-allure/pkg/sink"
)

// Destinations are the places a result is published to besides the results directory.
type Destinations struct {
	Provider      upload.Provider
	UploadTimeout time.Duration
	Webhook       *webhook.Client
}

// BuildSink layers the configured destinations over base: files are written
// first, then mirrored, then the result is announced to the webhook.
func BuildSink(base sink.Sink, dest Destinations, logger logrus.FieldLogger) sink.Sink {
	s := base
	if dest.Provider != nil {
		s = publish.Mirror(s, dest.Provider, dest.UploadTimeout, logger)
	}
	if dest.Webhook != nil {
		s = publish.Notify(s, dest.Webhook, logger)
	}
	return s
}

// NewRecorder creates the tracker for one command invocation. A nil logger
// means the logrus standard logger.
func NewRecorder(cfg *appconfig.Config, s sink.Sink, logger logrus.FieldLogger) *allure.Context {
	var opts []allure.Option
	if logger != nil {
		opts = append(opts, allure.WithLogger(logger))
	}

	if len(cfg.Labels) > 0 {
		names := make([]string, 0, len(cfg.Labels))
		for name := range cfg.Labels {
			names = append(names, name)
		}
		sort.Strings(names)
		labels := make([]model.Label, 0, len(names))
		for _, name := range names {
			labels = append(labels, model.Label{Name: name, Value: cfg.Labels[name]})
		}
		opts = append(opts, allure.WithLabels(labels...))
	}
	if cfg.HostLabel {
		opts = append(opts, allure.WithHostLabel())
	}
	if cfg.HistoryID == appconfig.HistoryRandom {
		opts = append(opts, allure.WithHistoryID(allure.RandomHistoryID))
	}

	return allure.New(s, opts...)
}

// SinkErrors remembers the first sink failure met while recording a test.
// Such failures fail the command rather than deciding the test outcome.
type SinkErrors struct {
	first error
}

// Check notes err when it wraps allure.ErrPersist and returns it unchanged.
func (s *SinkErrors) Check(err error) error {
	if s.first == nil && errors.Is(err, allure.ErrPersist) {
		s.first = err
	}
	return err
}

// Err returns the first sink failure, or nil.
func (s *SinkErrors) Err() error {
	return s.first
}

// CollectMetadata reads test metadata from the environment and the flags.
func CollectMetadata(flags *config.MetaFlags) (*meta.Metadata, error) {
	return meta.Collect(meta.Sources{
		JSON:        flags.JSON,
		File:        flags.File,
		Labels:      flags.Labels,
		Params:      flags.Params,
		Links:       flags.Links,
		Description: flags.Description,
	})
}

// TestOptions combines the suite and the collected metadata.
func TestOptions(suite string, md *meta.Metadata) []allure.TestOption {
	var opts []allure.TestOption
	if suite != "" {
		opts = append(opts, allure.Suite(suite))
	}
	return append(opts, md.Options()...)
}

// AttachCaptures attaches captured stdout and stderr to the current step.
// Empty captures are skipped. It returns the stderr text.
func AttachCaptures(rec *allure.Context, outputFile, stderrFile string) (string, error) {
	stdout, err := runner.ReadCapture(outputFile)
	if err != nil {
		return "", err
	}
	stderr, err := runner.ReadCapture(stderrFile)
	if err != nil {
		return "", err
	}

	if stdout != "" {
		if err := rec.AddAttachment("stdout", attachment.Text(stdout)); err != nil {
			return stderr, err
		}
	}
	if stderr != "" {
		if err := rec.AddAttachment("stderr", attachment.Text(stderr)); err != nil {
			return stderr, err
		}
	}
	return stderr, nil
}

// AttachFiles attaches each name=path pair to the current step or test.
func AttachFiles(rec *allure.Context, pairs []string) error {
	for _, pair := range pairs {
		name, path, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(name) == "" || strings.TrimSpace(path) == "" {
			return fmt.Errorf("invalid attachment %q: expected name=path", pair)
		}
		if err := rec.AttachFile(strings.TrimSpace(name), strings.TrimSpace(path)); err != nil {
			return err
		}
	}
	return nil
}
