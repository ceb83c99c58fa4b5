// Package lessons loads, validates and organizes the lesson catalogue.
package lessons

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/finlearn/internal/model"
)

//go:embed data/*.json
var bundledFS embed.FS

// bundledOrder is the curriculum order of the bundled lessons.
var bundledOrder = []string{
	"banking-basics.json",
	"building-credit.json",
	"tfsa-vs-rrsp.json",
	"advanced-credit.json",
}

// ErrNotConfigured is returned when the remote lesson store has no usable
// project configured.
var ErrNotConfigured = errors.New("remote lesson store is not configured")

// Bundled returns the lessons shipped inside the binary.
func Bundled() ([]model.Lesson, error) {
	out := make([]model.Lesson, 0, len(bundledOrder))
	for _, name := range bundledOrder {
		data, err := bundledFS.ReadFile("data/" + name)
		if err != nil {
			return nil, fmt.Errorf("failed to read bundled lesson %s: %w", name, err)
		}
		lesson, err := decode(name, data)
		if err != nil {
			return nil, err
		}
		out = append(out, lesson)
	}
	return out, nil
}

// LoadDir reads every .json, .yaml and .yml file in dir as one lesson.
// Lessons are ordered by level, then id.
func LoadDir(dir string) ([]model.Lesson, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read lessons dir: %w", err)
	}
	var out []model.Lesson
	for _, entry := range entries {
		if entry.IsDir() || !isLessonFile(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read lesson %s: %w", entry.Name(), err)
		}
		lesson, err := decode(entry.Name(), data)
		if err != nil {
			return nil, err
		}
		out = append(out, lesson)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no lessons found in %s", dir)
	}
	Sort(out)
	return out, nil
}

// Sort orders lessons by effective level, then id.
func Sort(lessons []model.Lesson) {
	sort.SliceStable(lessons, func(i, j int) bool {
		li, lj := lessons[i].EffectiveLevel(), lessons[j].EffectiveLevel()
		if li != lj {
			return li < lj
		}
		return lessons[i].ID < lessons[j].ID
	})
}

// Find returns the lesson with id.
func Find(lessons []model.Lesson, id string) (model.Lesson, bool) {
	for _, l := range lessons {
		if l.ID == id {
			return l, true
		}
	}
	return model.Lesson{}, false
}

func isLessonFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

func decode(name string, data []byte) (model.Lesson, error) {
	var lesson model.Lesson
	var err error
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &lesson)
	default:
		err = json.Unmarshal(data, &lesson)
	}
	if err != nil {
		return model.Lesson{}, fmt.Errorf("failed to parse lesson %s: %w", name, err)
	}
	return lesson, nil
}
