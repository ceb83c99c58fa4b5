package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/finlearn/internal/locale"
)

// LocalizedText is a content string that is either a plain value or a
// language-code keyed map.
type LocalizedText struct {
	Plain  string
	Values map[string]string
}

// Text wraps a plain string.
func Text(s string) LocalizedText {
	return LocalizedText{Plain: s}
}

// Translations builds a localized value from a language-code map.
func Translations(values map[string]string) LocalizedText {
	return LocalizedText{Values: values}
}

// IsLocalized reports whether the value carries per-language entries.
func (t LocalizedText) IsLocalized() bool {
	return t.Values != nil
}

// IsZero reports whether the value carries no text at all.
func (t LocalizedText) IsZero() bool {
	return t.Plain == "" && len(t.Values) == 0
}

// Resolve returns the text for loc, walking the locale fallback chain and then
// any remaining keys in sorted order. It returns "" when no value exists.
func (t LocalizedText) Resolve(loc locale.Locale) string {
	if !t.IsLocalized() {
		return t.Plain
	}
	for _, l := range loc.Chain() {
		if v := t.Values[string(l)]; v != "" {
			return v
		}
	}
	keys := make([]string, 0, len(t.Values))
	for k := range t.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if v := t.Values[k]; v != "" {
			return v
		}
	}
	return ""
}

// UnmarshalJSON accepts either a JSON string or an object of strings.
func (t *LocalizedText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = LocalizedText{}
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = LocalizedText{Plain: s}
		return nil
	case '{':
		var raw map[string]any
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		*t = LocalizedText{Values: stringValues(raw)}
		return nil
	default:
		return fmt.Errorf("localized text must be a string or object, got %s", string(data))
	}
}

// MarshalJSON writes plain values as strings and localized values as objects.
func (t LocalizedText) MarshalJSON() ([]byte, error) {
	if t.IsLocalized() {
		return json.Marshal(t.Values)
	}
	return json.Marshal(t.Plain)
}

// UnmarshalYAML accepts either a scalar or a mapping.
func (t *LocalizedText) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*t = LocalizedText{}
			return nil
		}
		*t = LocalizedText{Plain: node.Value}
		return nil
	case yaml.MappingNode:
		var raw map[string]any
		if err := node.Decode(&raw); err != nil {
			return err
		}
		*t = LocalizedText{Values: stringValues(raw)}
		return nil
	default:
		return fmt.Errorf("localized text must be a scalar or mapping (line %d)", node.Line)
	}
}

// MarshalYAML mirrors MarshalJSON.
func (t LocalizedText) MarshalYAML() (any, error) {
	if t.IsLocalized() {
		return t.Values, nil
	}
	return t.Plain, nil
}

func stringValues(raw map[string]any) map[string]string {
	values := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			values[k] = s
		}
	}
	return values
}
