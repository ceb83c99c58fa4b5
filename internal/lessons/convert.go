package lessons

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/verte-zerg/finlearn/internal/locale"
)

// ConvertReport lists the files ConvertDir touched.
type ConvertReport struct {
	Converted []string
	Skipped   []string
}

// ConvertDir rewrites every single-language JSON lesson in dir into the
// multilingual shape. Spanish and French get marked placeholders that still
// need a translator.
func ConvertDir(dir string) (ConvertReport, error) {
	var report ConvertReport
	matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return report, fmt.Errorf("failed to list lessons: %w", err)
	}
	sort.Strings(matches)
	for _, path := range matches {
		converted, err := ConvertFile(path)
		if err != nil {
			return report, err
		}
		name := filepath.Base(path)
		if converted {
			report.Converted = append(report.Converted, name)
		} else {
			report.Skipped = append(report.Skipped, name)
		}
	}
	return report, nil
}

// ConvertFile converts one lesson file in place. It reports false, leaving
// the file untouched, when the title is already multilingual.
func ConvertFile(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	out, converted, err := ConvertJSON(data)
	if err != nil {
		return false, fmt.Errorf("failed to convert %s: %w", filepath.Base(path), err)
	}
	if !converted {
		return false, nil
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return true, nil
}

// ConvertJSON converts one encoded lesson. Fields other than the text fields
// pass through unchanged.
func ConvertJSON(data []byte) ([]byte, bool, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var lesson map[string]any
	if err := dec.Decode(&lesson); err != nil {
		return nil, false, err
	}
	if isMultilingual(lesson["title"]) {
		return nil, false, nil
	}

	convertFields(lesson, "title", "description")
	for _, block := range objects(lesson["content"]) {
		convertFields(block, "title", "text")
	}
	for _, question := range objects(lesson["quiz"]) {
		convertFields(question, "question", "explanation")
		if options, ok := question["options"].([]any); ok {
			for i := range options {
				options[i] = toMultilingual(options[i])
			}
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(lesson); err != nil {
		return nil, false, err
	}
	return buf.Bytes(), true, nil
}

func convertFields(obj map[string]any, keys ...string) {
	for _, key := range keys {
		if v, ok := obj[key]; ok {
			obj[key] = toMultilingual(v)
		}
	}
}

func objects(v any) []map[string]any {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out
}

func isMultilingual(v any) bool {
	obj, ok := v.(map[string]any)
	if !ok {
		return false
	}
	for _, loc := range locale.Supported {
		if _, ok := obj[string(loc)]; ok {
			return true
		}
	}
	return false
}

func toMultilingual(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	out := map[string]any{}
	for _, loc := range locale.Supported {
		if loc == locale.English {
			out[string(loc)] = s
			continue
		}
		out[string(loc)] = fmt.Sprintf("[%s] %s", strings.ToUpper(string(loc)), s)
	}
	return out
}
