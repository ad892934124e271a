package config_test

import (
	"log/slog"
	"testing"

	"github.com/DanielTsay1/AMS/internal/config"
)

func TestStorageConfigFinalize(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.StorageConfig
		wantBytes int64
		wantErr   bool
	}{
		{
			"defaults",
			config.StorageConfig{},
			50 * 1000 * 1000,
			false,
		},
		{
			"explicit size",
			config.StorageConfig{MaxUploadSize: "10MB"},
			10 * 1000 * 1000,
			false,
		},
		{
			"plain bytes",
			config.StorageConfig{MaxUploadSize: "1024"},
			1024,
			false,
		},
		{
			"invalid size",
			config.StorageConfig{MaxUploadSize: "lots"},
			0,
			true,
		},
		{
			"negative size",
			config.StorageConfig{MaxUploadSize: "-5MB"},
			0,
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Finalize() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if got := tt.cfg.MaxUploadSizeBytes(); got != tt.wantBytes {
				t.Errorf("MaxUploadSizeBytes() = %d, want %d", got, tt.wantBytes)
			}
		})
	}
}

func TestStorageConfigEnvOverride(t *testing.T) {
	t.Setenv(config.EnvStorageBasePath, "/var/lib/ams")
	t.Setenv(config.EnvStorageMaxUploadSize, "5MB")

	cfg := config.StorageConfig{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	if cfg.BasePath != "/var/lib/ams" {
		t.Errorf("BasePath = %q, want /var/lib/ams", cfg.BasePath)
	}
	if got := cfg.MaxUploadSizeBytes(); got != 5*1000*1000 {
		t.Errorf("MaxUploadSizeBytes() = %d, want 5000000", got)
	}
}

func TestSearchConfigFinalize(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.SearchConfig
		wantErr bool
	}{
		{"defaults", config.SearchConfig{}, false},
		{"explicit valid", config.SearchConfig{MaxQueryLength: 200, MaxLimit: 30, DefaultLimit: 15, SnippetLength: 120}, false},
		{"query length too small", config.SearchConfig{MaxQueryLength: 1}, true},
		{"default over max limit", config.SearchConfig{MaxLimit: 10, DefaultLimit: 20}, true},
		{"snippet too small", config.SearchConfig{SnippetLength: 10}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize()
			if (err != nil) != tt.wantErr {
				t.Errorf("Finalize() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSearchConfigDefaults(t *testing.T) {
	cfg := config.SearchConfig{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	if cfg.MaxQueryLength != 500 {
		t.Errorf("MaxQueryLength = %d, want 500", cfg.MaxQueryLength)
	}
	if cfg.MaxLimit != 50 {
		t.Errorf("MaxLimit = %d, want 50", cfg.MaxLimit)
	}
	if cfg.DefaultLimit != 10 {
		t.Errorf("DefaultLimit = %d, want 10", cfg.DefaultLimit)
	}
	if cfg.SnippetLength != 240 {
		t.Errorf("SnippetLength = %d, want 240", cfg.SnippetLength)
	}
}

func TestIndexingConfigFinalize(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.IndexingConfig
		wantErr bool
	}{
		{"defaults", config.IndexingConfig{}, false},
		{"explicit valid", config.IndexingConfig{MaxAttempts: 5, RetryBackoff: "250ms"}, false},
		{"invalid backoff", config.IndexingConfig{RetryBackoff: "soon"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize()
			if (err != nil) != tt.wantErr {
				t.Errorf("Finalize() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLogLevelToSlogLevel(t *testing.T) {
	tests := []struct {
		level config.LogLevel
		want  slog.Level
	}{
		{config.LogLevelDebug, slog.LevelDebug},
		{config.LogLevelInfo, slog.LevelInfo},
		{config.LogLevelWarn, slog.LevelWarn},
		{config.LogLevelError, slog.LevelError},
		{config.LogLevel("unknown"), slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := tt.level.ToSlogLevel(); got != tt.want {
			t.Errorf("ToSlogLevel(%q) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestLoggingConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.LoggingConfig
		wantErr bool
	}{
		{"defaults", config.LoggingConfig{}, false},
		{"text format", config.LoggingConfig{Level: config.LogLevelDebug, Format: config.LogFormatText}, false},
		{"invalid level", config.LoggingConfig{Level: "verbose"}, true},
		{"invalid format", config.LoggingConfig{Format: "xml"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize()
			if (err != nil) != tt.wantErr {
				t.Errorf("Finalize() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDatabaseDsn(t *testing.T) {
	cfg := config.DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		Name:     "ams",
		User:     "svc",
		Password: "secret",
	}

	want := "host=db.internal port=5433 dbname=ams user=svc password=secret sslmode=disable"
	if got := cfg.Dsn(); got != want {
		t.Errorf("Dsn() = %q, want %q", got, want)
	}
}

func TestConfigMerge(t *testing.T) {
	base := config.Config{}
	overlay := config.Config{
		ShutdownTimeout: "10s",
	}
	overlay.Server.Port = 8080
	overlay.Search.MaxLimit = 25

	base.Merge(&overlay)

	if base.ShutdownTimeout != "10s" {
		t.Errorf("ShutdownTimeout = %q, want 10s", base.ShutdownTimeout)
	}
	if base.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", base.Server.Port)
	}
	if base.Search.MaxLimit != 25 {
		t.Errorf("Search.MaxLimit = %d, want 25", base.Search.MaxLimit)
	}
}
