// Package config provides configuration management for the Bidsight application.
package config

import (
	"os"
	"testing"
	"time"
)

const (
	validConfigPath              = "testdata/valid_config.yaml"
	expansionConfigPath          = "testdata/expansion_config.yaml"
	expansionConfigMissingPath   = "testdata/expansion_config_missing.yaml"
	nonexistentConfigPath        = "testdata/nonexistent_config.yaml"
	expectedNoErrorLoadingConfig = "expected no error loading config, got %v"
	expectedNoErrorMsg           = "expected no error, got %v"
	expectedNonNilConfig         = "expected non-nil config"
	bidsightName                 = "bidsight"
	developmentEnv               = "development"
	invalidEnv                   = "invalid"
	localhostHost                = "localhost"
	postgresPort                 = 5432
	postgresPrefix               = "postgres://"
	testAppName                  = "test-app"
	testDBPassword               = "TEST_DB_PASSWORD"
	testMissingVar               = "TEST_MISSING_VAR"
	expandedSecretValue          = "expanded_secret_value"
	cronValidationError          = "cron"
	cronValidationErrorCaps      = "Cron"
)

// TestLoadConfigSuccess tests loading a valid configuration file
func TestLoadConfigSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if cfg == nil {
		t.Fatal(expectedNonNilConfig)
	}

	if cfg.App.Name != bidsightName {
		t.Errorf("expected app name '%s', got '%s'", bidsightName, cfg.App.Name)
	}

	if cfg.App.Environment != developmentEnv {
		t.Errorf("expected environment '%s', got '%s'", developmentEnv, cfg.App.Environment)
	}

	if cfg.Database.Host != localhostHost {
		t.Errorf("expected database host '%s', got '%s'", localhostHost, cfg.Database.Host)
	}

	if cfg.Database.Port != postgresPort {
		t.Errorf("expected database port %d, got %d", postgresPort, cfg.Database.Port)
	}
}

// TestLoadConfigFileNotFound tests handling of missing configuration file
func TestLoadConfigFileNotFound(t *testing.T) {
	_, err := Load(nonexistentConfigPath)
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

// TestLoadConfigEnvironmentVariables tests environment variable override
func TestLoadConfigEnvironmentVariables(t *testing.T) {
	// Set an environment variable
	os.Setenv("BIDSIGHT_APP_NAME", testAppName)
	defer os.Unsetenv("BIDSIGHT_APP_NAME")

	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if cfg.App.Name != testAppName {
		t.Errorf("expected app name '%s' from environment, got '%s'", testAppName, cfg.App.Name)
	}
}

// TestValidateSuccess tests validation of a valid configuration
func TestValidateSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	err = Validate(cfg)
	if err != nil {
		t.Fatalf("expected no validation error, got %v", err)
	}
}

// TestValidateInvalidEnvironment tests validation of invalid environment
func TestValidateInvalidEnvironment(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	cfg.App.Environment = invalidEnv
	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for invalid environment")
	}
}

// TestValidateInvalidCronSpec tests validation of invalid cron expressions
func TestValidateInvalidCronSpec(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	cfg.Scheduler.TrainingCron = "not a cron spec"
	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for invalid cron expression")
	}

	if !containsSubstring(err.Error(), cronValidationError) && !containsSubstring(err.Error(), cronValidationErrorCaps) {
		t.Errorf("expected cron validation error, got: %v", err)
	}
}

// TestValidateValidCronSpecs tests validation of valid cron expressions
func TestValidateValidCronSpecs(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	// Test with a step expression
	cfg.Scheduler.PredictionRefreshCron = "*/15 * * * *"
	err = Validate(cfg)
	if err != nil {
		t.Fatalf("expected no error for step cron expression, got %v", err)
	}

	// Test with a descriptor
	cfg.Scheduler.TrainingCron = "@daily"
	err = Validate(cfg)
	if err != nil {
		t.Fatalf("expected no error for cron descriptor, got %v", err)
	}
}

// TestValidateConnectionPoolBounds tests the idle/max connection cross-field rule
func TestValidateConnectionPoolBounds(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	cfg.Database.MaxIdleConnections = cfg.Database.MaxConnections + 1
	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error when idle connections exceed max connections")
	}
}

// TestValidateAIBlendRequiresAdvisor tests the AI blend feature flag cross-field rule
func TestValidateAIBlendRequiresAdvisor(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	cfg.Features.AIBlendEnabled = true
	cfg.AI.Enabled = false
	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for AI blend without an enabled advisor")
	}

	cfg.AI.Enabled = true
	err = Validate(cfg)
	if err != nil {
		t.Fatalf("expected no error with advisor enabled, got %v", err)
	}
}

// TestGetDatabaseDSN tests DSN generation
func TestGetDatabaseDSN(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	dsn := cfg.GetDatabaseDSN()
	if dsn == "" {
		t.Fatal("expected non-empty DSN")
	}

	if !containsSubstring(dsn, postgresPrefix) {
		t.Errorf("expected DSN to start with '%s', got '%s'", postgresPrefix, dsn)
	}
}

// TestIsDevelopment tests environment check function
func TestIsDevelopment(t *testing.T) {
	cfg := &Config{
		App: AppConfig{Environment: developmentEnv},
	}

	if !cfg.IsDevelopment() {
		t.Error("expected IsDevelopment() to return true")
	}

	if cfg.IsProduction() {
		t.Error("expected IsProduction() to return false")
	}
}

// TestIsProduction tests production environment check
func TestIsProduction(t *testing.T) {
	cfg := &Config{
		App: AppConfig{Environment: "production"},
	}

	if !cfg.IsProduction() {
		t.Error("expected IsProduction() to return true")
	}

	if cfg.IsDevelopment() {
		t.Error("expected IsDevelopment() to return false")
	}
}

// TestIsStaging tests staging environment check
func TestIsStaging(t *testing.T) {
	cfg := &Config{
		App: AppConfig{Environment: "staging"},
	}

	if !cfg.IsStaging() {
		t.Error("expected IsStaging() to return true")
	}

	if cfg.IsDevelopment() {
		t.Error("expected IsDevelopment() to return false")
	}
}

// TestPredictionCacheTTL tests cache TTL conversion
func TestPredictionCacheTTL(t *testing.T) {
	cfg := &Config{
		ML: MLConfig{CacheTTLSeconds: 300},
	}

	if cfg.PredictionCacheTTL() != 5*time.Minute {
		t.Errorf("expected TTL of 5 minutes, got %v", cfg.PredictionCacheTTL())
	}
}

// TestAIRequestTimeout tests advisor timeout conversion
func TestAIRequestTimeout(t *testing.T) {
	cfg := &Config{
		AI: AIConfig{RequestTimeoutSeconds: 30},
	}

	if cfg.AIRequestTimeout() != 30*time.Second {
		t.Errorf("expected timeout of 30 seconds, got %v", cfg.AIRequestTimeout())
	}
}

// TestLoadWithDefaultsMissingFile tests that defaults apply when no config file exists
func TestLoadWithDefaultsMissingFile(t *testing.T) {
	cfg, err := LoadWithDefaults(nonexistentConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if cfg.App.Environment != developmentEnv {
		t.Errorf("expected default environment '%s', got '%s'", developmentEnv, cfg.App.Environment)
	}

	if cfg.ML.ArtifactsDir != "data/models" {
		t.Errorf("expected default artifacts dir 'data/models', got '%s'", cfg.ML.ArtifactsDir)
	}

	if cfg.AI.Model != "gemini-2.0-flash" {
		t.Errorf("expected default model 'gemini-2.0-flash', got '%s'", cfg.AI.Model)
	}

	if cfg.Scheduler.TrainingCron != "0 2 * * 0" {
		t.Errorf("expected default training cron, got '%s'", cfg.Scheduler.TrainingCron)
	}
}

// TestValidateEnvironmentProduction tests production-specific requirements
func TestValidateEnvironmentProduction(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	cfg.App.Environment = "production"
	cfg.Database.SSLMode = "disable"
	if err := ValidateEnvironment(cfg); err == nil {
		t.Fatal("expected error for disabled SSL in production")
	}

	cfg.Database.SSLMode = "require"
	cfg.AI.Enabled = true
	cfg.AI.APIKey = "test-key-please-replace"
	if err := ValidateEnvironment(cfg); err == nil {
		t.Fatal("expected error for test AI credentials in production")
	}

	cfg.AI.APIKey = "AIzaSyC8UYq7vBnot3real4keyZ"
	if err := ValidateEnvironment(cfg); err != nil {
		t.Fatalf("expected no error for production config, got %v", err)
	}
}

// TestLoadConfigEnvironmentVariableExpansion tests environment variable expansion in config file
func TestLoadConfigEnvironmentVariableExpansion(t *testing.T) {
	// Set environment variable
	os.Setenv(testDBPassword, expandedSecretValue)
	defer os.Unsetenv(testDBPassword)

	cfg, err := Load(expansionConfigPath)
	if err != nil {
		t.Fatalf("expected no error loading config with expansion, got %v", err)
	}

	if cfg.Database.Password != expandedSecretValue {
		t.Errorf("expected password '%s' from environment expansion, got '%s'", expandedSecretValue, cfg.Database.Password)
	}
}

// TestLoadConfigMissingEnvironmentVariable tests handling of missing environment variables
func TestLoadConfigMissingEnvironmentVariable(t *testing.T) {
	// Ensure environment variable is not set
	os.Unsetenv(testMissingVar)

	cfg, err := Load(expansionConfigMissingPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	// os.ExpandEnv replaces unset variables with the empty string
	if cfg.Database.Password != "" {
		t.Errorf("expected empty password for unset variable, got %q", cfg.Database.Password)
	}
}

// Helper function
func containsSubstring(str, substr string) bool {
	for i := 0; i <= len(str)-len(substr); i++ {
		if str[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
