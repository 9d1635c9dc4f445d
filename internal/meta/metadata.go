package meta

import (
	"fmt"
	"slices"
	"sort"

	"github.com/zinc-sig/ghost-allure/pkg/allure"
	"github.com/zinc-sig/ghost-allure/pkg/model"
)

// LabelEnvPrefix is the environment prefix for labels: GHOST_LABEL_OWNER=alice
// adds the label owner=alice.
const LabelEnvPrefix = "GHOST_LABEL"

// Sources are the places test metadata is read from.
//
// A metadata document (file or JSON) is an object with optional keys
// "labels", "parameters", "links" and "description". Labels and parameters are
// objects of name to value, or lists of {name, value} objects. A label value may
// be a list to repeat the label. Links map a name to a URL or to {url, type}.
type Sources struct {
	JSON        string
	File        string
	Labels      []string // name=value
	Params      []string // name=value
	Links       []string // name=url
	Description string
}

// Metadata is what a test is decorated with before it starts.
type Metadata struct {
	Labels      []model.Label
	Parameters  []model.Parameter
	Links       []model.Link
	Description string
}

// Collect reads the environment, the file, the JSON string and the flag
// values, in that order. Labels accumulate across sources because a label may
// repeat. Parameters and links are keyed by name and later sources replace
// earlier ones.
func Collect(src Sources) (*Metadata, error) {
	m := &Metadata{}

	envLabels := ParseEnvWithPrefix(LabelEnvPrefix)
	for _, name := range sortedKeys(envLabels) {
		m.Labels = append(m.Labels, model.Label{Name: name, Value: scalar(envLabels[name])})
	}

	if src.File != "" {
		doc, err := ParseFile(src.File)
		if err != nil {
			return nil, fmt.Errorf("failed to read metadata file: %w", err)
		}
		if err := m.apply(doc); err != nil {
			return nil, fmt.Errorf("metadata file %s: %w", src.File, err)
		}
	}

	if src.JSON != "" {
		doc, err := ParseJSON(src.JSON)
		if err != nil {
			return nil, fmt.Errorf("failed to parse metadata: %w", err)
		}
		if err := m.apply(doc); err != nil {
			return nil, fmt.Errorf("metadata: %w", err)
		}
	}

	for _, kv := range src.Labels {
		name, value, err := SplitKV(kv)
		if err != nil {
			return nil, fmt.Errorf("label: %w", err)
		}
		m.Labels = append(m.Labels, model.Label{Name: name, Value: value})
	}
	for _, kv := range src.Params {
		name, value, err := SplitKV(kv)
		if err != nil {
			return nil, fmt.Errorf("param: %w", err)
		}
		m.setParameter(model.Parameter{Name: name, Value: value})
	}
	for _, kv := range src.Links {
		name, url, err := SplitKV(kv)
		if err != nil {
			return nil, fmt.Errorf("link: %w", err)
		}
		m.setLink(model.Link{Name: name, URL: url, Type: "link"})
	}

	if src.Description != "" {
		m.Description = src.Description
	}
	return m, nil
}

// Options converts the metadata into options for allure.Context.StartTest.
func (m *Metadata) Options() []allure.TestOption {
	var opts []allure.TestOption
	if len(m.Labels) > 0 {
		opts = append(opts, allure.Labels(m.Labels...))
	}
	if len(m.Parameters) > 0 {
		opts = append(opts, allure.Parameters(m.Parameters...))
	}
	if len(m.Links) > 0 {
		opts = append(opts, allure.Links(m.Links...))
	}
	if m.Description != "" {
		opts = append(opts, allure.Description(m.Description))
	}
	return opts
}

func (m *Metadata) apply(doc any) error {
	if doc == nil {
		return nil
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return fmt.Errorf("expected an object, got %T", doc)
	}

	if raw, ok := obj["labels"]; ok {
		labels, err := decodePairs(raw)
		if err != nil {
			return fmt.Errorf("labels: %w", err)
		}
		for _, p := range labels {
			m.Labels = append(m.Labels, model.Label{Name: p.name, Value: p.value})
		}
	}

	if raw, ok := obj["parameters"]; ok {
		params, err := decodePairs(raw)
		if err != nil {
			return fmt.Errorf("parameters: %w", err)
		}
		for _, p := range params {
			m.setParameter(model.Parameter{
				Name:     p.name,
				Value:    p.value,
				Excluded: p.fields["excluded"] == true,
				Mode:     model.ParameterMode(stringField(p.fields, "mode")),
			})
		}
	}

	if raw, ok := obj["links"]; ok {
		links, err := decodeLinks(raw)
		if err != nil {
			return fmt.Errorf("links: %w", err)
		}
		for _, l := range links {
			m.setLink(l)
		}
	}

	if raw, ok := obj["description"]; ok {
		s, ok := raw.(string)
		if !ok {
			return fmt.Errorf("description must be a string, got %T", raw)
		}
		m.Description = s
	}
	return nil
}

func (m *Metadata) setParameter(p model.Parameter) {
	i := slices.IndexFunc(m.Parameters, func(q model.Parameter) bool { return q.Name == p.Name })
	if i >= 0 {
		m.Parameters[i] = p
		return
	}
	m.Parameters = append(m.Parameters, p)
}

func (m *Metadata) setLink(l model.Link) {
	i := slices.IndexFunc(m.Links, func(q model.Link) bool { return q.Name == l.Name })
	if i >= 0 {
		m.Links[i] = l
		return
	}
	m.Links = append(m.Links, l)
}

type pair struct {
	name   string
	value  string
	fields map[string]any
}

// decodePairs accepts {"name": value} objects and [{"name": n, "value": v}] lists.
func decodePairs(raw any) ([]pair, error) {
	switch v := raw.(type) {
	case map[string]any:
		var out []pair
		for _, name := range sortedKeys(v) {
			if list, ok := v[name].([]any); ok {
				for _, item := range list {
					out = append(out, pair{name: name, value: scalar(item)})
				}
				continue
			}
			out = append(out, pair{name: name, value: scalar(v[name])})
		}
		return out, nil
	case []any:
		out := make([]pair, 0, len(v))
		for i, item := range v {
			fields, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("entry %d: expected an object, got %T", i, item)
			}
			name := stringField(fields, "name")
			if name == "" {
				return nil, fmt.Errorf("entry %d: name is required", i)
			}
			out = append(out, pair{name: name, value: scalar(fields["value"]), fields: fields})
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected an object or a list, got %T", raw)
	}
}

func decodeLinks(raw any) ([]model.Link, error) {
	switch v := raw.(type) {
	case map[string]any:
		var out []model.Link
		for _, name := range sortedKeys(v) {
			switch target := v[name].(type) {
			case string:
				out = append(out, model.Link{Name: name, URL: target, Type: "link"})
			case map[string]any:
				out = append(out, linkFromFields(name, target))
			default:
				return nil, fmt.Errorf("link %q: expected a URL or an object, got %T", name, target)
			}
		}
		return out, nil
	case []any:
		out := make([]model.Link, 0, len(v))
		for i, item := range v {
			fields, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("entry %d: expected an object, got %T", i, item)
			}
			out = append(out, linkFromFields(stringField(fields, "name"), fields))
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected an object or a list, got %T", raw)
	}
}

func linkFromFields(name string, fields map[string]any) model.Link {
	link := model.Link{Name: name, URL: stringField(fields, "url"), Type: stringField(fields, "type")}
	if link.Type == "" {
		link.Type = "link"
	}
	return link
}

func stringField(fields map[string]any, key string) string {
	if s, ok := fields[key].(string); ok {
		return s
	}
	return ""
}

func scalar(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
