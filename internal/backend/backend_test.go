package backend

import (
	"context"
	"strings"
	"testing"

	"tugas/internal/config"
)

func TestOpen_UnknownBackend(t *testing.T) {
	cfg := &config.Config{Backend: "sqlite"}
	_, err := Open(context.Background(), cfg)
	if err == nil || !strings.Contains(err.Error(), "unknown backend") {
		t.Errorf("expected unknown backend error, got %v", err)
	}
}

func TestOpen_MissingSettings(t *testing.T) {
	cases := []struct {
		backend string
		want    string
	}{
		{config.BackendFirestore, "TUGAS_PROJECT_ID"},
		{config.BackendRedis, "TUGAS_REDIS_URL"},
		{config.BackendPostgres, "TUGAS_DATABASE_URL"},
		{config.BackendMySQL, "TUGAS_DATABASE_URL"},
	}
	for _, tc := range cases {
		cfg := &config.Config{Backend: tc.backend}
		_, err := Open(context.Background(), cfg)
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Errorf("%s: expected error mentioning %s, got %v", tc.backend, tc.want, err)
		}
	}
}
