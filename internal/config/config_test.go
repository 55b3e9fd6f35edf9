package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const fullYAML = `
data_dir: /var/lib/satchel
server:
  port: 8080
  cors_origins: ["https://satchel.example.com"]
  request_timeout: 10s
  max_body_bytes: 1024
log:
  file: /var/log/satchel.log
  level: debug
  max_size_mb: 5
  max_backups: 2
  max_age_days: 7
  compress: true
digest:
  enabled: true
  cron: "30 7 * * 1-5"
  platform: discord
  channel_id: "123456"
  horizon_days: 3
`

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvDataDir, EnvPort, EnvSlackBotToken, EnvDiscordBotToken} {
		t.Setenv(k, "")
	}
}

func TestParse_FullConfig(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvDiscordBotToken, "discord-token")

	cfg, err := Parse([]byte(fullYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.DataDir != "/var/lib/satchel" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if len(cfg.Server.CORSOrigins) != 1 || cfg.Server.CORSOrigins[0] != "https://satchel.example.com" {
		t.Errorf("Server.CORSOrigins = %v", cfg.Server.CORSOrigins)
	}
	if cfg.Server.RequestTimeout != 10*time.Second {
		t.Errorf("Server.RequestTimeout = %v, want 10s", cfg.Server.RequestTimeout)
	}
	if cfg.Server.MaxBodyBytes != 1024 {
		t.Errorf("Server.MaxBodyBytes = %d, want 1024", cfg.Server.MaxBodyBytes)
	}
	if cfg.Log.File != "/var/log/satchel.log" || cfg.Log.Level != "debug" || !cfg.Log.Compress {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.Log.MaxSizeMB != 5 || cfg.Log.MaxBackups != 2 || cfg.Log.MaxAgeDays != 7 {
		t.Errorf("Log rotation = %+v", cfg.Log)
	}
	d := cfg.Digest
	if !d.Enabled || d.Cron != "30 7 * * 1-5" || d.Platform != PlatformDiscord || d.ChannelID != "123456" || d.HorizonDays != 3 {
		t.Errorf("Digest = %+v", d)
	}
	if d.DiscordBotToken != "discord-token" {
		t.Errorf("Digest.DiscordBotToken = %q", d.DiscordBotToken)
	}
	if d.Horizon() != 72*time.Hour {
		t.Errorf("Horizon = %v, want 72h", d.Horizon())
	}
}

func TestParse_EmptyConfig_AppliesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Parse([]byte(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.DataDir != "./data" {
		t.Errorf("DataDir = %q, want ./data (default)", cfg.DataDir)
	}
	if cfg.Server.Port != 5000 {
		t.Errorf("Server.Port = %d, want 5000 (default)", cfg.Server.Port)
	}
	if cfg.Server.RequestTimeout != 30*time.Second {
		t.Errorf("Server.RequestTimeout = %v, want 30s (default)", cfg.Server.RequestTimeout)
	}
	if cfg.Server.MaxBodyBytes != 10<<20 {
		t.Errorf("Server.MaxBodyBytes = %d, want 10 MiB (default)", cfg.Server.MaxBodyBytes)
	}
	if len(cfg.Server.CORSOrigins) != 1 {
		t.Errorf("Server.CORSOrigins = %v, want one default origin", cfg.Server.CORSOrigins)
	}
	if cfg.Log.Level != "info" || cfg.Log.MaxSizeMB != 10 || cfg.Log.MaxBackups != 3 || cfg.Log.MaxAgeDays != 28 {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.Digest.Enabled || cfg.Digest.Cron != "0 8 * * *" || cfg.Digest.Platform != PlatformSlack || cfg.Digest.HorizonDays != 7 {
		t.Errorf("Digest = %+v", cfg.Digest)
	}
}

func TestParse_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvDataDir, "/tmp/satchel")
	t.Setenv(EnvPort, "9090")
	t.Setenv(EnvSlackBotToken, "xoxb-test")

	cfg, err := Parse([]byte("server:\n  port: 8080\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DataDir != "/tmp/satchel" {
		t.Errorf("DataDir = %q, want env override", cfg.DataDir)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want env override 9090", cfg.Server.Port)
	}
	if cfg.Digest.SlackBotToken != "xoxb-test" {
		t.Errorf("Digest.SlackBotToken = %q", cfg.Digest.SlackBotToken)
	}
}

func TestParse_BadPortEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvPort, "eighty")
	_, err := Parse([]byte(""))
	if err == nil || !strings.Contains(err.Error(), EnvPort) {
		t.Errorf("error = %v, want mention of %s", err, EnvPort)
	}
}

func TestParse_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want []string
	}{
		{
			name: "port out of range",
			yaml: "server:\n  port: 70000\n",
			want: []string{"server.port 70000 out of range"},
		},
		{
			name: "bad log level",
			yaml: "log:\n  level: chatty\n",
			want: []string{`log.level "chatty" is invalid`},
		},
		{
			name: "digest enabled without settings",
			yaml: "digest:\n  enabled: true\n  cron: \"not a cron\"\n  platform: teams\n  horizon_days: -1\n",
			want: []string{
				`digest.cron "not a cron" is invalid`,
				`digest.platform "teams" must be slack or discord`,
				"digest.channel_id is required",
				"digest.horizon_days must be positive",
			},
		},
		{
			name: "slack digest without token",
			yaml: "digest:\n  enabled: true\n  channel_id: C1\n",
			want: []string{EnvSlackBotToken + " is required"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.HasPrefix(err.Error(), "config: validation failed: ") {
				t.Errorf("error = %q, want validation prefix", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(err.Error(), w) {
					t.Errorf("error %q missing %q", err, w)
				}
			}
		})
	}
}

func TestParse_DisabledDigestSkipsValidation(t *testing.T) {
	clearEnv(t)
	if _, err := Parse([]byte("digest:\n  platform: teams\n")); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("server: [unclosed"))
	if err == nil || !strings.HasPrefix(err.Error(), "config: parse:") {
		t.Errorf("error = %v, want parse error", err)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/satchel.yaml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "config: read") {
		t.Errorf("error = %q, want read error", err)
	}
}

func TestWriteThenLoad(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "satchel.yaml")
	cfg := Default()
	cfg.Server.Port = 6001
	if err := Write(path, cfg); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Server.Port != 6001 || got.DataDir != "./data" || got.Server.RequestTimeout != 30*time.Second {
		t.Errorf("round trip = %+v", got)
	}

	if err := Write(path, cfg); err == nil {
		t.Error("Write should refuse to overwrite an existing file")
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config file missing: %v", err)
	}
}
