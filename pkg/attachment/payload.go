package attachment

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Payload is attachment content together with its classification.
type Payload interface {
	Kind() Kind
	Content() ([]byte, error)
}

type raw struct {
	kind    Kind
	content []byte
}

func (r raw) Kind() Kind               { return r.kind }
func (r raw) Content() ([]byte, error) { return r.content, nil }

// Text wraps a string payload. Strings default to plain text.
func Text(s string) Payload {
	return raw{kind: KindText, content: []byte(s)}
}

// Bytes wraps a raw byte payload. Raw bytes default to plain text.
func Bytes(b []byte) Payload {
	return raw{kind: KindText, content: b}
}

// Typed tags content with an explicit kind. content may be a string or a byte slice.
func Typed[T string | []byte](kind Kind, content T) Payload {
	return raw{kind: kind, content: []byte(content)}
}

type structured struct {
	kind  Kind
	value any
}

func (s structured) Kind() Kind { return s.kind }

func (s structured) Content() ([]byte, error) {
	switch s.kind {
	case KindYAML:
		out, err := yaml.Marshal(s.value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode yaml attachment: %w", err)
		}
		return out, nil
	default:
		out, err := json.MarshalIndent(s.value, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode json attachment: %w", err)
		}
		return out, nil
	}
}

// JSON wraps a structured value that is rendered as indented JSON.
func JSON(v any) Payload {
	return structured{kind: KindJSON, value: v}
}

// YAML wraps a structured value that is rendered as YAML.
func YAML(v any) Payload {
	return structured{kind: KindYAML, value: v}
}
