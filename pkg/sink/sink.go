// Package sink persists finished result documents and attachment content.
package sink

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/zinc-sig/ghost-allure/pkg/model"
)

// DefaultResultsDir is used when ALLURE_RESULTS_DIR is not set.
const DefaultResultsDir = "allure-results"

// ResultsDirEnv overrides the results directory.
const ResultsDirEnv = "ALLURE_RESULTS_DIR"

// Sink persists the output of a recorded test.
type Sink interface {
	// PersistResult writes one finished result document.
	PersistResult(result *model.TestResult) error

	// PersistAttachment writes attachment content and returns the reference
	// (file name) to embed in the result document.
	PersistAttachment(content []byte, extension string) (string, error)
}

// ResultFileName is the file name of a result document.
func ResultFileName(resultUUID string) string {
	return fmt.Sprintf("%s-result.json", resultUUID)
}

// NewAttachmentName generates a fresh unique attachment file name.
func NewAttachmentName(extension string) string {
	return fmt.Sprintf("%s.%s", uuid.New().String(), extension)
}
