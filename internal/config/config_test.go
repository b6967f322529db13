package config

import (
	"testing"

	"github.com/kinetta/takeoffctl/internal/util/viperutil"
)

func TestBuildProfiledConfig_ProfileEnvWithDashes(t *testing.T) {
	t.Setenv("TAKEOFFCTL_TEAM_A_B_C_API_TOKEN", "token-123")

	profile := "team-a-b-c"
	mainv := viperutil.NewViper("nonexistent.yaml")
	mainv.Set(profile, map[string]any{})

	cfg := BuildProfiledConfig(profile, "nonexistent.yaml", mainv)

	if got := cfg.GetString("api.token"); got != "token-123" {
		t.Fatalf("expected api.token to be %q, got %q", "token-123", got)
	}
}

func TestGetConfigInitializesDefaults(t *testing.T) {
	path := t.TempDir() + "/config.yaml"

	cfg, err := GetConfig(path, "default", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := cfg.GetString("output"); got != "text" {
		t.Fatalf("expected output to default to text, got %q", got)
	}
	if got := cfg.GetIntOrElse("page-size", 0); got != 10 {
		t.Fatalf("expected page-size to default to 10, got %d", got)
	}
}
