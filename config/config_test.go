package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Audio.SampleRate != 16000 || cfg.Audio.Channels != 1 {
		t.Errorf("audio defaults = %+v", cfg.Audio)
	}
	if cfg.Features.TimeWindow != 5 {
		t.Errorf("time_window = %d", cfg.Features.TimeWindow)
	}
	if cfg.Cloud.PollInterval != 2*time.Second {
		t.Errorf("poll_interval = %s", cfg.Cloud.PollInterval)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("addr = %s", cfg.Server.Addr)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `
pipeline:
  log_level: debug
audio:
  sample_rate: 44100
features:
  time_window: 10
  overlap: 2
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Pipeline.LogLvl != "debug" {
		t.Errorf("log_level = %s", cfg.Pipeline.LogLvl)
	}
	if cfg.Audio.SampleRate != 44100 {
		t.Errorf("sample_rate = %d", cfg.Audio.SampleRate)
	}
	if cfg.Features.TimeWindow != 10 || cfg.Features.Overlap != 2 {
		t.Errorf("features = %+v", cfg.Features)
	}
	// untouched keys keep their defaults
	if cfg.Audio.Format != "wav" {
		t.Errorf("format = %s", cfg.Audio.Format)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("COOPER_AUDIO_SAMPLE_RATE", "8000")
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Audio.SampleRate != 8000 {
		t.Errorf("sample_rate = %d, want env override 8000", cfg.Audio.SampleRate)
	}
}

func TestEnvAPIKeyOverride(t *testing.T) {
	t.Setenv("COOPER_CLOUD_API_KEY", "aai-from-env")
	t.Setenv("COOPER_OPENAI_API_KEY", "oai-from-env")
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Cloud.APIKey != "aai-from-env" {
		t.Errorf("cloud api key = %q, want env override", cfg.Cloud.APIKey)
	}
	if cfg.OpenAI.APIKey != "oai-from-env" {
		t.Errorf("openai api key = %q, want env override", cfg.OpenAI.APIKey)
	}
}

func TestEnvAPIKeyWinsOverLegacy(t *testing.T) {
	t.Setenv("COOPER_CLOUD_API_KEY", "prefixed-key")
	t.Setenv("ASSEMBLYAI_API_KEY", "legacy-key")
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Cloud.APIKey != "prefixed-key" {
		t.Errorf("cloud api key = %q, want the COOPER_ variable to win", cfg.Cloud.APIKey)
	}
}

func TestLegacyAPIKeyEnv(t *testing.T) {
	t.Setenv("ASSEMBLYAI_API_KEY", "aai-test-key")
	t.Setenv("OPENAI_API_KEY", "oai-test-key")
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Cloud.APIKey != "aai-test-key" {
		t.Errorf("cloud api key = %q", cfg.Cloud.APIKey)
	}
	if cfg.OpenAI.APIKey != "oai-test-key" {
		t.Errorf("openai api key = %q", cfg.OpenAI.APIKey)
	}
}

func TestSnapshotExcludesSecrets(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Cloud.APIKey = "super-secret"
	cfg.OpenAI.APIKey = "also-secret"

	path := filepath.Join(t.TempDir(), "config_snapshot.yaml")
	if err := cfg.Snapshot(path); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(b)
	if strings.Contains(out, "super-secret") || strings.Contains(out, "also-secret") {
		t.Error("snapshot leaked an API key")
	}
	if !strings.Contains(out, "sample_rate: 16000") {
		t.Errorf("snapshot missing audio settings:\n%s", out)
	}
}
