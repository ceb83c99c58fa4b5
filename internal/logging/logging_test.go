package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "finlearn.log")
	logger, err := New(Options{File: path})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Info("progress loaded")
	logger.Debug("hidden")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"progress loaded"`) {
		t.Fatalf("expected JSON info entry, got %q", data)
	}
	if strings.Contains(string(data), "hidden") {
		t.Fatalf("debug entry should be filtered")
	}
}

func TestNewVerboseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "finlearn.log")
	logger, err := New(Options{File: path, Verbose: true})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Debug("shown")
	_ = logger.Sync()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "shown") {
		t.Fatalf("expected debug entry, got %q", data)
	}
}
