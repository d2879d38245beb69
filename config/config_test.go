package config

import (
	"strings"
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("DB_TYPE", "")
	t.Setenv("PORT", "")
	t.Setenv("JWT_TTL", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("SQLITE_PATH", "")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}
	if cfg.DBType != DBSQLite {
		t.Errorf("DBType = %q, want %q", cfg.DBType, DBSQLite)
	}
	if cfg.Port != "5000" {
		t.Errorf("Port = %q, want 5000", cfg.Port)
	}
	if cfg.JWTTTL != 168*time.Hour {
		t.Errorf("JWTTTL = %v, want 168h", cfg.JWTTTL)
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Errorf("CORSOrigins = %v, want two defaults", cfg.CORSOrigins)
	}
	if cfg.R2.Enabled() {
		t.Error("R2 should be disabled without settings")
	}
}

func TestFromEnvValidation(t *testing.T) {
	testCases := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "missing secret",
			env:     map[string]string{"DB_TYPE": "sqlite", "JWT_SECRET": ""},
			wantErr: "JWT_SECRET",
		},
		{
			name:    "postgres without url",
			env:     map[string]string{"DB_TYPE": "postgres", "POSTGRES_URL": "", "JWT_SECRET": "s"},
			wantErr: "POSTGRES_URL",
		},
		{
			name:    "mongo without url",
			env:     map[string]string{"DB_TYPE": "mongo", "MONGO_URL": "", "JWT_SECRET": "s"},
			wantErr: "MONGO_URL",
		},
		{
			name:    "unknown backend",
			env:     map[string]string{"DB_TYPE": "redis", "JWT_SECRET": "s"},
			wantErr: "not supported",
		},
		{
			name:    "bad ttl",
			env:     map[string]string{"DB_TYPE": "sqlite", "JWT_SECRET": "s", "JWT_TTL": "forever"},
			wantErr: "JWT_TTL",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("JWT_TTL", "")
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q does not mention %q", err, tc.wantErr)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" http://a.test , ,http://b.test")
	if len(got) != 2 || got[0] != "http://a.test" || got[1] != "http://b.test" {
		t.Errorf("splitList = %v", got)
	}
}
