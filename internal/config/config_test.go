package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Notebrook.Channel != "feeds" {
		t.Errorf("default channel = %q", cfg.Notebrook.Channel)
	}
	if cfg.TimeoutDuration() != 30*time.Second {
		t.Errorf("default timeout = %v", cfg.TimeoutDuration())
	}
	if cfg.WorkerCount() != 3 {
		t.Errorf("default workers = %d", cfg.WorkerCount())
	}

	// First run should have written the defaults out.
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("defaults not written: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
notebrook:
  url: "https://notes.example"
  token: "tok"
  channel: "mychannel"
db_path: "/tmp/feeder-test.db"
timeout: "5s"
workers: 8
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Notebrook.URL != "https://notes.example" {
		t.Errorf("url = %q", cfg.Notebrook.URL)
	}
	if cfg.Notebrook.Channel != "mychannel" {
		t.Errorf("channel = %q", cfg.Notebrook.Channel)
	}
	if cfg.DatabasePath() != "/tmp/feeder-test.db" {
		t.Errorf("db path = %q", cfg.DatabasePath())
	}
	if cfg.TimeoutDuration() != 5*time.Second {
		t.Errorf("timeout = %v", cfg.TimeoutDuration())
	}
	if cfg.WorkerCount() != 8 {
		t.Errorf("workers = %d", cfg.WorkerCount())
	}
}

func TestLoadBadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(":\nnot yaml {{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestNotebrookTokenEnvFallback(t *testing.T) {
	t.Setenv("FEEDER_NOTEBROOK_TOKEN", "env-token")
	cfg := &Config{}
	if got := cfg.NotebrookToken(); got != "env-token" {
		t.Errorf("token = %q", got)
	}

	cfg.Notebrook.Token = "file-token"
	if got := cfg.NotebrookToken(); got != "file-token" {
		t.Errorf("config token should win, got %q", got)
	}
}

func TestValidateNotify(t *testing.T) {
	cfg := &Config{}
	if err := cfg.ValidateNotify(); err == nil {
		t.Error("expected error for empty config")
	}

	cfg.Notebrook = Notebrook{URL: "https://notes.example", Token: "t", Channel: "feeds"}
	if err := cfg.ValidateNotify(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
