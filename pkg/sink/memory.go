package sink

import (
	"fmt"
	"sync"

	"github.com/zinc-sig/ghost-allure/pkg/model"
)

var _ Sink = (*Memory)(nil)

// Memory keeps results and attachments in memory. It is safe for concurrent use.
type Memory struct {
	mu          sync.Mutex
	results     []*model.TestResult
	attachments map[string][]byte
	err         error
}

// NewMemory creates an empty in-memory sink.
func NewMemory() *Memory {
	return &Memory{attachments: make(map[string][]byte)}
}

// FailWith makes every following persist call return err.
func (m *Memory) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *Memory) PersistResult(result *model.TestResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.results = append(m.results, result)
	return nil
}

func (m *Memory) PersistAttachment(content []byte, extension string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	name := NewAttachmentName(extension)
	m.attachments[name] = append([]byte(nil), content...)
	return name, nil
}

// Results returns the persisted results in write order.
func (m *Memory) Results() []*model.TestResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*model.TestResult(nil), m.results...)
}

// Last returns the most recently persisted result.
func (m *Memory) Last() (*model.TestResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.results) == 0 {
		return nil, fmt.Errorf("no results persisted")
	}
	return m.results[len(m.results)-1], nil
}

// Attachment returns the content stored under source.
func (m *Memory) Attachment(source string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.attachments[source]
	return b, ok
}
