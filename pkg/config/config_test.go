package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/coarsen/pkg/cache"
	errs "github.com/matzehuels/coarsen/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Iterations != DefaultIterations {
		t.Errorf("Iterations = %d, want %d", cfg.Iterations, DefaultIterations)
	}
	if cfg.Server.Addr != DefaultServerAddr {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, DefaultServerAddr)
	}
	if cfg.Cache.Backend != cache.BackendFile {
		t.Errorf("Cache.Backend = %q, want %q", cfg.Cache.Backend, cache.BackendFile)
	}
}

func TestLoad_DefaultPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)

	dir := filepath.Join(home, AppName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("iterations = 4\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Iterations != 4 {
		t.Errorf("Iterations = %d, want 4", cfg.Iterations)
	}
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
iterations = 3

[cache]
backend = "redis"
ttl = "72h"
redis_addr = "localhost:6379"

[server]
addr = "127.0.0.1:9000"
cors_origins = ["http://localhost:3000"]

[render]
detailed = true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Iterations != 3 {
		t.Errorf("Iterations = %d, want 3", cfg.Iterations)
	}
	if cfg.Cache.Backend != cache.BackendRedis || cfg.Cache.RedisAddr != "localhost:6379" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if d, _ := cfg.Cache.Duration(); d != 72*time.Hour {
		t.Errorf("Cache.Duration() = %v, want 72h", d)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if len(cfg.Server.CORSOrigins) != 1 || cfg.Server.CORSOrigins[0] != "http://localhost:3000" {
		t.Errorf("Server.CORSOrigins = %v", cfg.Server.CORSOrigins)
	}
	if !cfg.Render.Detailed {
		t.Error("Render.Detailed = false, want true")
	}
	// Unset keys keep their defaults.
	if cfg.Cache.MongoDatabase != DefaultMongoDatabase {
		t.Errorf("Cache.MongoDatabase = %q, want %q", cfg.Cache.MongoDatabase, DefaultMongoDatabase)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", "iterations = \n"},
		{"negative iterations", "iterations = -1\n"},
		{"bad ttl", "[cache]\nttl = \"soon\"\n"},
		{"negative ttl", "[cache]\nttl = \"-1h\"\n"},
		{"unknown backend", "[cache]\nbackend = \"memcached\"\n"},
		{"redis without addr", "[cache]\nbackend = \"redis\"\n"},
		{"mongo without uri", "[cache]\nbackend = \"mongo\"\n"},
		{"bad server addr", "[server]\naddr = \"localhost\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("Load() succeeded, want error")
			}
			if !errs.IsValidation(err) {
				t.Errorf("Load() error = %v, want validation error", err)
			}
		})
	}
}

func TestCacheOptions(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")

	opts := Default().Cache.Options()
	if opts.Dir != filepath.Join("/tmp/xdg-cache", AppName) {
		t.Errorf("Dir = %q", opts.Dir)
	}

	opts = CacheConfig{Backend: cache.BackendBadger}.Options()
	if opts.Dir != filepath.Join("/tmp/xdg-cache", AppName, "badger") {
		t.Errorf("badger Dir = %q", opts.Dir)
	}

	cc := CacheConfig{Backend: cache.BackendMongo, Dir: "/var/cache/x", MongoURI: "mongodb://db", MongoDatabase: "c"}
	opts = cc.Options()
	if opts.Dir != "/var/cache/x" || opts.MongoURI != "mongodb://db" || opts.Backend != cache.BackendMongo {
		t.Errorf("Options() = %+v", opts)
	}
}

func TestPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")
	p, err := Path()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/tmp/xdg-config", AppName, "config.toml"); p != want {
		t.Errorf("Path() = %q, want %q", p, want)
	}
}
