package sink

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/zinc-sig/ghost-allure/pkg/model"
)

var _ Sink = (*FileSink)(nil)

// FileSink writes results and attachments into a directory.
type FileSink struct {
	dir    string
	logger logrus.FieldLogger
}

// NewFileSink creates a sink writing into dir. The directory is created on first write.
func NewFileSink(dir string, logger logrus.FieldLogger) *FileSink {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(os.Stderr)
		logger = l
	}
	return &FileSink{dir: dir, logger: logger}
}

// NewFileSinkFromEnv creates a sink writing into $ALLURE_RESULTS_DIR or allure-results.
func NewFileSinkFromEnv(logger logrus.FieldLogger) *FileSink {
	return NewFileSink(ResultsDir(), logger)
}

// ResultsDir resolves the results directory from the environment.
func ResultsDir() string {
	if dir := os.Getenv(ResultsDirEnv); dir != "" {
		return dir
	}
	return DefaultResultsDir
}

// Dir returns the directory the sink writes into.
func (s *FileSink) Dir() string {
	return s.dir
}

// PersistResult writes <uuid>-result.json.
func (s *FileSink) PersistResult(result *model.TestResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal test result %s: %w", result.UUID, err)
	}
	name := ResultFileName(result.UUID)
	if err := s.write(name, data); err != nil {
		return err
	}
	s.logger.WithFields(logrus.Fields{"file": name, "status": result.Status}).Debug("wrote test result")
	return nil
}

// PersistAttachment writes <uuid>.<extension> and returns the file name.
func (s *FileSink) PersistAttachment(content []byte, extension string) (string, error) {
	name := NewAttachmentName(extension)
	if err := s.write(name, content); err != nil {
		return "", err
	}
	s.logger.WithFields(logrus.Fields{"file": name, "bytes": len(content)}).Debug("wrote attachment")
	return name, nil
}

func (s *FileSink) write(name string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create results directory %s: %w", s.dir, err)
	}
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
