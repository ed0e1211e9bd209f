package db

import (
	"path/filepath"
	"testing"
)

func TestInitDB_InMemoryCreatesTables(t *testing.T) {
	conn, err := InitDB("")
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	defer conn.Close()

	for _, table := range []string{"books", "reviews", "users", "activity_events"} {
		var name string
		err := conn.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		if err != nil {
			t.Fatalf("table %q missing: %v", table, err)
		}
	}
}

func TestInitDB_FileIsReopenable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")

	first, err := InitDB(path)
	if err != nil {
		t.Fatalf("first InitDB: %v", err)
	}
	if _, err := first.Exec(`INSERT INTO users (username, password) VALUES ('alice', 'pw1')`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	_ = first.Close()

	second, err := InitDB(path)
	if err != nil {
		t.Fatalf("second InitDB: %v", err)
	}
	defer second.Close()

	var n int
	if err := second.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 user after reopen, got %d", n)
	}
}
