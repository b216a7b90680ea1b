package app

import (
	"bytes"
	"testing"
)

func TestRun_MigrateCommand_WithUnreachableDB_ReturnsError(t *testing.T) {
	setTestEnv(t)

	var buf bytes.Buffer
	err := Run(&buf, []string{"migrate"})
	if err == nil {
		t.Fatal("Run(migrate) with unreachable DB should return error")
	}
}

func TestRun_HealthcheckCommand_WithoutServer_ReturnsError(t *testing.T) {
	// healthcheckは設定読み込みをスキップするため環境変数は不要
	t.Setenv("SERVER_PORT", "1")

	var buf bytes.Buffer
	err := Run(&buf, []string{"healthcheck"})
	if err == nil {
		t.Fatal("Run(healthcheck) without a running server should return error")
	}
}

func TestRun_WithMissingConfig_ReturnsError(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("FIREBASE_PROJECT_ID", "")

	var buf bytes.Buffer
	err := Run(&buf, []string{"serve"})
	if err == nil {
		t.Fatal("Run(serve) with missing config should return error")
	}
}
