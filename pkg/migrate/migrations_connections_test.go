package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConnectionsMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_connections.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no connections migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS connections",
		"CREATE UNIQUE INDEX uq_connections_live_pair",
		"WHERE status IN ('pending', 'active')",
		"CHECK (store_org_id <> provider_org_id)",
		"DROP TABLE IF EXISTS connections",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestOnboardingMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_onboarding_steps.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no onboarding steps migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS onboarding_steps",
		"CONSTRAINT uq_onboarding_steps_user_step UNIQUE (user_id, step_number)",
		"CHECK (step_number > 0)",
		"DROP TABLE IF EXISTS onboarding_steps",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
