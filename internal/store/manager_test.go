package store

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func setupTestManager(t *testing.T) (*Manager, string) {
	t.Helper()
	tmpDir := t.TempDir()

	manager, err := NewManager(tmpDir)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}
	t.Cleanup(func() {
		manager.Close()
	})
	return manager, tmpDir
}

func TestGetDB_CreatesSiteDatabase(t *testing.T) {
	manager, tmpDir := setupTestManager(t)

	db, err := manager.GetDB("plant-a")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if db == nil {
		t.Fatal("expected db to be non-nil")
	}

	if _, err := os.Stat(filepath.Join(tmpDir, "plant-a.db")); os.IsNotExist(err) {
		t.Error("expected site database file to exist")
	}

	// Schema is in place
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM spare_parts").Scan(&n); err != nil {
		t.Fatalf("expected spare_parts table, got: %v", err)
	}
}

func TestGetDB_ReusesConnection(t *testing.T) {
	manager, _ := setupTestManager(t)

	db1, err := manager.GetDB("plant-a")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	db2, err := manager.GetDB("plant-a")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if db1 != db2 {
		t.Error("expected the same connection for the same site")
	}
}

func TestGetDB_IsolatesSites(t *testing.T) {
	manager, _ := setupTestManager(t)

	a, _ := manager.GetDB("plant-a")
	b, _ := manager.GetDB("plant-b")

	if _, err := a.Exec(`INSERT INTO task_groups (id, group_name, type, created_at) VALUES ('tg-1', 'A', 'repair', '2026-01-01T00:00:00Z')`); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	var n int
	if err := b.QueryRow("SELECT COUNT(*) FROM task_groups").Scan(&n); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 0 {
		t.Errorf("expected site b to be empty, got %d groups", n)
	}
}

func TestListSites(t *testing.T) {
	manager, _ := setupTestManager(t)

	for _, site := range []string{"north", "south"} {
		if _, err := manager.GetDB(site); err != nil {
			t.Fatalf("GetDB(%s): %v", site, err)
		}
	}

	sites, err := manager.ListSites()
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	sort.Strings(sites)
	if len(sites) != 2 || sites[0] != "north" || sites[1] != "south" {
		t.Errorf("unexpected sites: %v", sites)
	}
}
