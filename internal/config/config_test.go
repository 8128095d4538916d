package config

import (
	"strings"
	"testing"
)

func validConfig() Config {
	return Config{
		HTTP:       HTTPConfig{Port: 8080},
		Database:   DatabaseConfig{Driver: DriverRedis, Addrs: []string{"localhost:6379"}},
		Translator: TranslatorConfig{APIKey: "gsk-test"},
	}
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_Drivers(t *testing.T) {
	tests := []struct {
		name    string
		db      DatabaseConfig
		wantErr string
	}{
		{"redis without addrs", DatabaseConfig{Driver: DriverRedis}, "database.addrs is required"},
		{"mongo without uri", DatabaseConfig{Driver: DriverMongo}, "database.uri is required"},
		{"mongo ok", DatabaseConfig{Driver: DriverMongo, URI: "mongodb://localhost:27017"}, ""},
		{"memory ok", DatabaseConfig{Driver: DriverMemory}, ""},
		{"unknown", DatabaseConfig{Driver: "valkey"}, `database.driver must be one of redis, mongo, memory, got "valkey"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Database = tt.db

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_MissingTranslatorKey(t *testing.T) {
	cfg := validConfig()
	cfg.Translator.APIKey = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing translator api key")
	}
}

func TestValidate_NegativeRate(t *testing.T) {
	cfg := validConfig()
	cfg.RateLimit.RequestsPerSecond = -1

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative rate")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 30 {
		t.Errorf("expected WriteTimeoutSec=30, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Database.Driver != DriverMemory {
		t.Errorf("expected Driver=memory, got %q", cfg.Database.Driver)
	}
	if cfg.Database.ReadinessTimeout != 10 {
		t.Errorf("expected ReadinessTimeout=10, got %d", cfg.Database.ReadinessTimeout)
	}
	if cfg.Database.Name != "nlq" || cfg.Database.Collection != "students" {
		t.Errorf("expected nlq/students, got %q/%q", cfg.Database.Name, cfg.Database.Collection)
	}
	if cfg.Translator.Model != "llama-3.3-70b-versatile" {
		t.Errorf("expected default model, got %q", cfg.Translator.Model)
	}
	if cfg.Translator.Temperature != 0.1 {
		t.Errorf("expected Temperature=0.1, got %v", cfg.Translator.Temperature)
	}
	if cfg.Translator.MaxTokens != 500 {
		t.Errorf("expected MaxTokens=500, got %d", cfg.Translator.MaxTokens)
	}
	if cfg.Query.TranslateTimeoutSec != 15 {
		t.Errorf("expected TranslateTimeoutSec=15, got %d", cfg.Query.TranslateTimeoutSec)
	}
	// лимит выключен, burst не трогаем
	if cfg.RateLimit.Burst != 0 {
		t.Errorf("expected Burst=0 with limiting off, got %d", cfg.RateLimit.Burst)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:       HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Database:   DatabaseConfig{Driver: DriverMongo, ReadinessTimeout: 15, Collection: "alumni"},
		Translator: TranslatorConfig{Model: "gpt-4o-mini", MaxTokens: 300},
		RateLimit:  RateLimitConfig{RequestsPerSecond: 2, Burst: 4},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Database.Driver != DriverMongo || cfg.Database.Collection != "alumni" {
		t.Errorf("database overridden: %+v", cfg.Database)
	}
	if cfg.Translator.Model != "gpt-4o-mini" || cfg.Translator.MaxTokens != 300 {
		t.Errorf("translator overridden: %+v", cfg.Translator)
	}
	if cfg.RateLimit.Burst != 4 {
		t.Errorf("expected Burst=4, got %d", cfg.RateLimit.Burst)
	}
}

func TestApplyDefaults_BurstWhenLimited(t *testing.T) {
	cfg := Config{RateLimit: RateLimitConfig{RequestsPerSecond: 5}}
	cfg.ApplyDefaults()

	if cfg.RateLimit.Burst != 10 {
		t.Errorf("expected Burst=10, got %d", cfg.RateLimit.Burst)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("NLQ_TEST_KEY", "gsk-live")
	t.Setenv("NLQ_TEST_EMPTY", "")

	in := "key: ${NLQ_TEST_KEY}\nport: ${NLQ_TEST_EMPTY:-8080}\nmissing: ${NLQ_TEST_NOPE}\n"
	got := string(expandEnvVars([]byte(in)))

	want := "key: gsk-live\nport: 8080\nmissing: \n"
	if got != want {
		t.Errorf("expandEnvVars:\ngot:  %q\nwant: %q", got, want)
	}
}
