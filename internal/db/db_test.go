package db

import (
	"testing"
	"testing/fstest"
)

func TestMigrateIdempotent(t *testing.T) {
	conn, err := OpenMigrated(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer conn.Close()

	if err := Migrate(conn); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	var n int
	if err := conn.QueryRow(`SELECT COUNT(1) FROM _migrations`).Scan(&n); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 recorded migration, got %d", n)
	}
	for _, table := range []string{"users", "daily_results"} {
		if _, err := conn.Exec(`SELECT 1 FROM ` + table + ` LIMIT 1`); err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
}

func TestMigrateFailureRollsBack(t *testing.T) {
	conn, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer conn.Close()

	fsys := fstest.MapFS{
		"001_a.sql": {Data: []byte(`CREATE TABLE a (id INTEGER);`)},
		"002_b.sql": {Data: []byte(`CREATE TABLE b (id INTEGER); INSERT INTO nope VALUES (1);`)},
	}
	if err := migrateFS(conn, fsys); err == nil {
		t.Fatal("expected error from broken migration")
	}

	var n int
	_ = conn.QueryRow(`SELECT COUNT(1) FROM _migrations`).Scan(&n)
	if n != 1 {
		t.Errorf("expected only 001 recorded, got %d", n)
	}
	if _, err := conn.Exec(`SELECT 1 FROM b`); err == nil {
		t.Error("expected table b rolled back")
	}

	fsys["002_b.sql"] = &fstest.MapFile{Data: []byte(`CREATE TABLE b (id INTEGER);`)}
	if err := migrateFS(conn, fsys); err != nil {
		t.Fatalf("retry: %v", err)
	}
	_ = conn.QueryRow(`SELECT COUNT(1) FROM _migrations`).Scan(&n)
	if n != 2 {
		t.Errorf("expected 2 recorded migrations, got %d", n)
	}
}
