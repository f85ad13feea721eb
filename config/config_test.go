package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadJSONConfigSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{
  "app": {"AppPort": "9000", "JWTSecret": "s3cret", "AdminUsernames": ["root", "ops"]},
  "cache": {"Backend": "memory", "IndexSeconds": 30},
  "database": {"Driver": "sqlite", "DatabaseURI": "yatube.db"},
  "redis": {"RedisPort": 6380},
  "log": {"Level": "debug", "Compress": true}
}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	var c AppConfig
	if err := loadJSONConfig(path, &c); err != nil {
		t.Fatalf("load: %v", err)
	}
	applyDefaults(&c)

	if c.AppPort != "9000" || c.JWTSecret != "s3cret" || len(c.AdminUsernames) != 2 {
		t.Fatalf("app section = %+v", c)
	}
	if c.CacheBackend != "memory" || c.IndexCacheSeconds != 30 || c.IndexCachePrefix != "index_page" {
		t.Fatalf("cache section = %q %d %q", c.CacheBackend, c.IndexCacheSeconds, c.IndexCachePrefix)
	}
	if c.DBDriver != "sqlite" || c.DatabaseURI != "yatube.db" || c.RedisPort != 6380 {
		t.Fatalf("storage sections = %+v", c)
	}
	if c.LogLevel != "debug" || !c.LogCompress {
		t.Fatalf("log section = %q %v", c.LogLevel, c.LogCompress)
	}
}

func TestLoadJSONConfigMissingFile(t *testing.T) {
	var c AppConfig
	if err := loadJSONConfig(filepath.Join(t.TempDir(), "absent.json"), &c); err != nil {
		t.Fatalf("missing file should be ignored, got %v", err)
	}
}

func TestDefaults(t *testing.T) {
	var c AppConfig
	applyDefaults(&c)
	if c.AppPort != "8080" || c.IndexCacheSeconds != 20 || c.RateLimitPerMinute != 60 {
		t.Fatalf("defaults = %+v", c)
	}
	if c.DBDriver != "mysql" || c.DBPort != "3306" || c.CacheBackend != "redis" {
		t.Fatalf("storage defaults = %+v", c)
	}

	pg := AppConfig{DBDriver: "postgres"}
	applyDefaults(&pg)
	if pg.DBPort != "5432" {
		t.Fatalf("postgres port default = %q", pg.DBPort)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "7000")
	t.Setenv("ADMIN_USERNAMES", " root , ,ops")
	t.Setenv("INDEX_CACHE_SECONDS", "5")
	t.Setenv("LOG_COMPRESS", "true")

	c := AppConfig{AppPort: "9000"}
	applyEnvOverrides(&c)
	if c.AppPort != "7000" || c.IndexCacheSeconds != 5 || !c.LogCompress {
		t.Fatalf("overrides = %+v", c)
	}
	if len(c.AdminUsernames) != 2 || c.AdminUsernames[1] != "ops" {
		t.Fatalf("admin list = %q", c.AdminUsernames)
	}
}

func TestIsAdmin(t *testing.T) {
	c := AppConfig{AdminUsernames: []string{"Root"}}
	if !c.IsAdmin("root") {
		t.Fatal("admin match should ignore case")
	}
	if c.IsAdmin("") || c.IsAdmin("leo") {
		t.Fatal("unexpected admin")
	}
}

func TestOpenDatabaseRejectsUnknownDriver(t *testing.T) {
	if _, err := OpenDatabase(AppConfig{DBDriver: "oracle"}); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}
