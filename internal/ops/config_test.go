package ops

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `{"feed": {"symbols": ["BTCUSDT", "ETHUSDT"]}}`)

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Feed.PublicEndpoint != defaultPublicEndpoint {
		t.Fatalf("public endpoint = %q", loaded.Feed.PublicEndpoint)
	}
	if loaded.Feed.BookDepth != defaultBookDepth {
		t.Fatalf("book depth = %d", loaded.Feed.BookDepth)
	}
	if loaded.Feed.ViewDepth != defaultViewDepth {
		t.Fatalf("view depth = %d", loaded.Feed.ViewDepth)
	}
	if loaded.Feed.QueueSize != defaultQueueSize {
		t.Fatalf("queue size = %d", loaded.Feed.QueueSize)
	}
	if loaded.Postgres != nil {
		t.Fatal("postgres should stay nil when absent")
	}
}

func TestLoadResolvesPostgres(t *testing.T) {
	path := writeConfig(t, `{
		"feed": {"symbols": ["BTCUSDT"], "bookDepth": 200, "queueSize": 64},
		"postgres": {"host": "db", "port": 5433, "user": "feed", "database": "archive"}
	}`)

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Feed.BookDepth != 200 {
		t.Fatalf("book depth = %d", loaded.Feed.BookDepth)
	}
	if loaded.Postgres == nil {
		t.Fatal("postgres option missing")
	}
	if loaded.Postgres.Host != "db" || loaded.Postgres.Port != 5433 {
		t.Fatalf("postgres option = %+v", loaded.Postgres)
	}
}

func TestLoadRejectsEmptySymbols(t *testing.T) {
	path := writeConfig(t, `{"feed": {"symbols": []}}`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for empty symbols")
	}

	path = writeConfig(t, `{"feed": {"symbols": [""]}}`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for blank symbol")
	}
}

func TestLoadRejectsNegativeSizes(t *testing.T) {
	path := writeConfig(t, `{"feed": {"symbols": ["BTCUSDT"], "queueSize": -1}}`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for negative queue size")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
