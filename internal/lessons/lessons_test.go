package lessons

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/finlearn/internal/locale"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestBundledLessons(t *testing.T) {
	lessons, err := Bundled()
	if err != nil {
		t.Fatalf("bundled: %v", err)
	}
	var got []string
	for _, l := range lessons {
		got = append(got, l.ID)
	}
	assert.Equal(t, []string{"banking-basics", "building-credit", "tfsa-vs-rrsp", "advanced-credit"}, got)
	assert.Empty(t, Validate(lessons))

	credit, ok := Find(lessons, "building-credit")
	require.True(t, ok)
	assert.Equal(t, "Bâtir votre cote de crédit", credit.Title.Resolve(locale.French))

	banking, _ := Find(lessons, "banking-basics")
	assert.Equal(t, "Banking Basics", banking.Title.Resolve(locale.Spanish))
}

func TestLoadDirMixedFormats(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.json", `{"id":"zeta","title":"Zeta","level":1,"xpReward":10,
		"content":[{"title":"One","text":"Body"}],"quiz":[]}`)
	writeFile(t, dir, "a.yaml", `
id: budgeting
title:
  en: Budgeting
  fr: Budget
level: 2
xpReward: 30
content:
  - title: Plan
    text: Spend less than you earn.
`)
	writeFile(t, dir, "c.yml", `
id: alpha
title: Alpha
xpReward: 5
content:
  - title: Intro
    text: Unset level counts as level one.
`)
	writeFile(t, dir, "notes.txt", "not a lesson")

	lessons, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("load dir: %v", err)
	}
	var got []string
	for _, l := range lessons {
		got = append(got, l.ID)
	}
	assert.Equal(t, []string{"alpha", "zeta", "budgeting"}, got)
	assert.Equal(t, "Budget", lessons[2].Title.Resolve(locale.French))
}

func TestLoadDirErrors(t *testing.T) {
	if _, err := LoadDir(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatalf("expected error for missing dir")
	}
	if _, err := LoadDir(t.TempDir()); err == nil {
		t.Fatalf("expected error for empty dir")
	}
	dir := t.TempDir()
	writeFile(t, dir, "bad.json", `{"id": 1`)
	_, err := LoadDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.json")
}
