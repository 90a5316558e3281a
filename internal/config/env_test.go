package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEnvFile(t *testing.T) {
	tmpDir := t.TempDir()
	envFile := filepath.Join(tmpDir, ".env")

	content := `# Test env file
KEY1=value1
KEY2="quoted value"
KEY3='single quoted'
# Comment
KEY4=value4
`
	if err := os.WriteFile(envFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	os.Unsetenv("KEY1")
	os.Unsetenv("KEY2")
	os.Unsetenv("KEY3")
	os.Unsetenv("KEY4")

	if err := loadEnvFile(envFile); err != nil {
		t.Fatalf("loadEnvFile failed: %v", err)
	}

	if os.Getenv("KEY1") != "value1" {
		t.Errorf("KEY1 not set correctly: %s", os.Getenv("KEY1"))
	}
	if os.Getenv("KEY2") != "quoted value" {
		t.Errorf("KEY2 not set correctly: %s", os.Getenv("KEY2"))
	}
	if os.Getenv("KEY3") != "single quoted" {
		t.Errorf("KEY3 not set correctly: %s", os.Getenv("KEY3"))
	}
	if os.Getenv("KEY4") != "value4" {
		t.Errorf("KEY4 not set correctly: %s", os.Getenv("KEY4"))
	}
}

func TestLoadEnvFile_DoesNotOverride(t *testing.T) {
	tmpDir := t.TempDir()
	envFile := filepath.Join(tmpDir, ".env")

	content := `EXISTING_KEY=new_value`
	if err := os.WriteFile(envFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	os.Setenv("EXISTING_KEY", "original_value")
	defer os.Unsetenv("EXISTING_KEY")

	if err := loadEnvFile(envFile); err != nil {
		t.Fatalf("loadEnvFile failed: %v", err)
	}

	if os.Getenv("EXISTING_KEY") != "original_value" {
		t.Errorf("existing env var was overridden: %s", os.Getenv("EXISTING_KEY"))
	}
}

func TestResolveEnvWithAliases(t *testing.T) {
	os.Unsetenv("VITALPULSE_AI_API_KEY")
	os.Setenv("GEMINI_API_KEY", "alias-key")
	defer os.Unsetenv("GEMINI_API_KEY")

	if got := ResolveEnvWithAliases("VITALPULSE_AI_API_KEY"); got != "alias-key" {
		t.Errorf("expected alias-key, got %s", got)
	}

	os.Setenv("VITALPULSE_AI_API_KEY", "canonical-key")
	defer os.Unsetenv("VITALPULSE_AI_API_KEY")

	if got := ResolveEnvWithAliases("VITALPULSE_AI_API_KEY"); got != "canonical-key" {
		t.Errorf("canonical key should win over aliases, got %s", got)
	}
}

func TestGetEnvDefault(t *testing.T) {
	os.Unsetenv("MISSING_KEY")
	if got := GetEnvDefault("MISSING_KEY", "fallback"); got != "fallback" {
		t.Errorf("expected fallback, got %s", got)
	}

	os.Setenv("PRESENT_KEY", "set")
	defer os.Unsetenv("PRESENT_KEY")
	if got := GetEnvDefault("PRESENT_KEY", "fallback"); got != "set" {
		t.Errorf("expected set, got %s", got)
	}
}
