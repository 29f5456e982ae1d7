package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mattn/go-sqlite3"
)

// driverName is go-sqlite3 with the fold function registered. fold lowers
// text the way the Go client does, so searches are case-insensitive beyond
// ASCII.
const driverName = "sqlite3_fixdesk"

func init() {
	sql.Register(driverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("fold", strings.ToLower, true)
		},
	})
}

// initialSchema is the SQL schema for initializing a new site database.
const initialSchema = `
-- Enable WAL mode for better concurrent read performance
PRAGMA journal_mode=WAL;

-- Task groups table
CREATE TABLE IF NOT EXISTS task_groups (
    id         TEXT PRIMARY KEY,
    group_name TEXT NOT NULL,
    type       TEXT NOT NULL,
    created_at TEXT NOT NULL
);

-- Tasks table
CREATE TABLE IF NOT EXISTS tasks (
    id             TEXT PRIMARY KEY,
    task_group_id  TEXT NOT NULL REFERENCES task_groups(id) ON DELETE CASCADE,
    name           TEXT NOT NULL,
    description    TEXT,
    type           TEXT NOT NULL,
    status         TEXT NOT NULL DEFAULT 'pending',
    priority       INTEGER NOT NULL DEFAULT 2 CHECK (priority BETWEEN 0 AND 4),
    assignee_name  TEXT,
    order_index    INTEGER NOT NULL DEFAULT 0,
    start_time     TEXT,
    expected_time  TEXT,
    end_time       TEXT,
    created_at     TEXT NOT NULL,
    updated_at     TEXT NOT NULL
);

-- Index for loading a group's tasks in display order
CREATE INDEX IF NOT EXISTS idx_tasks_group_order ON tasks(task_group_id, order_index);

-- Per-type task details
CREATE TABLE IF NOT EXISTS installation_details (
    task_id       TEXT PRIMARY KEY REFERENCES tasks(id) ON DELETE CASCADE,
    old_device_id TEXT,
    new_device_id TEXT,
    area          TEXT NOT NULL DEFAULT '',
    building      TEXT NOT NULL DEFAULT '',
    floor         TEXT NOT NULL DEFAULT '',
    room          TEXT NOT NULL DEFAULT '',
    installed_at  TEXT,
    notes         TEXT
);

CREATE TABLE IF NOT EXISTS warranty_details (
    task_id            TEXT PRIMARY KEY REFERENCES tasks(id) ON DELETE CASCADE,
    device_id          TEXT NOT NULL,
    claim_number       TEXT,
    service_center     TEXT NOT NULL DEFAULT '',
    issue_description  TEXT NOT NULL DEFAULT '',
    claim_status       TEXT NOT NULL DEFAULT 'draft',
    submitted_at       TEXT,
    expected_return_at TEXT,
    returned_at        TEXT,
    resolution         TEXT
);

CREATE TABLE IF NOT EXISTS repair_details (
    task_id     TEXT PRIMARY KEY REFERENCES tasks(id) ON DELETE CASCADE,
    device_id   TEXT NOT NULL,
    technician  TEXT NOT NULL DEFAULT '',
    diagnosis   TEXT NOT NULL DEFAULT '',
    notes       TEXT,
    cost        REAL NOT NULL DEFAULT 0,
    parts       TEXT NOT NULL DEFAULT '[]',
    repaired_at TEXT
);

-- Devices table
CREATE TABLE IF NOT EXISTS devices (
    id                  TEXT PRIMARY KEY,
    name                TEXT NOT NULL,
    code                TEXT NOT NULL UNIQUE,
    model               TEXT NOT NULL DEFAULT '',
    manufacturer        TEXT NOT NULL DEFAULT '',
    status              TEXT NOT NULL DEFAULT 'active',
    under_warranty      INTEGER NOT NULL DEFAULT 0,
    warranty_expires_at TEXT,
    area                TEXT NOT NULL DEFAULT '',
    building            TEXT NOT NULL DEFAULT '',
    floor               TEXT NOT NULL DEFAULT '',
    room                TEXT NOT NULL DEFAULT '',
    created_at          TEXT NOT NULL,
    updated_at          TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_devices_status ON devices(status);

-- Spare part inventory
CREATE TABLE IF NOT EXISTS spare_parts (
    id            TEXT PRIMARY KEY,
    name          TEXT NOT NULL UNIQUE,
    category      TEXT NOT NULL DEFAULT '',
    machine_type  TEXT NOT NULL DEFAULT '',
    quantity      INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
    min_threshold INTEGER NOT NULL DEFAULT 0,
    unit          TEXT NOT NULL DEFAULT '',
    supplier      TEXT NOT NULL DEFAULT '',
    price         REAL NOT NULL DEFAULT 0,
    image_url     TEXT,
    updated_at    TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_spare_parts_category ON spare_parts(category);

-- Users
CREATE TABLE IF NOT EXISTS users (
    id            TEXT PRIMARY KEY,
    username      TEXT NOT NULL UNIQUE,
    full_name     TEXT NOT NULL,
    email         TEXT NOT NULL DEFAULT '',
    phone         TEXT NOT NULL DEFAULT '',
    role          TEXT NOT NULL,
    active        INTEGER NOT NULL DEFAULT 1,
    password_hash TEXT NOT NULL,
    created_at    TEXT NOT NULL
);

-- Working hours configuration
CREATE TABLE IF NOT EXISTS shifts (
    id             TEXT PRIMARY KEY,
    name           TEXT NOT NULL,
    start_time     TEXT NOT NULL,
    end_time       TEXT NOT NULL,
    active         INTEGER NOT NULL DEFAULT 1,
    is_office_hour INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS holidays (
    id     TEXT PRIMARY KEY,
    name   TEXT NOT NULL,
    date   TEXT NOT NULL,
    active INTEGER NOT NULL DEFAULT 1
);

-- Audit log table
CREATE TABLE IF NOT EXISTS audit_log (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    entity_type TEXT NOT NULL,
    entity_id   TEXT NOT NULL,
    action      TEXT NOT NULL,
    field       TEXT,
    old_value   TEXT,
    new_value   TEXT,
    changed_at  TEXT NOT NULL,
    changed_by  TEXT NOT NULL
);

-- Index for querying audit log by entity
CREATE INDEX IF NOT EXISTS idx_audit_log_entity ON audit_log(entity_type, entity_id);

-- Index for querying audit log by time
CREATE INDEX IF NOT EXISTS idx_audit_log_changed_at ON audit_log(changed_at);
`

// Manager handles multiple SQLite database connections, one per site.
type Manager struct {
	basePath string
	dbs      map[string]*sql.DB
	mu       sync.RWMutex
}

// NewManager creates a new database manager.
// basePath is the directory where site databases are stored (e.g., ~/.fixdesk/sites/).
func NewManager(basePath string) (*Manager, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	return &Manager{
		basePath: basePath,
		dbs:      make(map[string]*sql.DB),
	}, nil
}

// GetDB returns the database connection for a site, creating it if necessary.
func (m *Manager) GetDB(site string) (*sql.DB, error) {
	m.mu.RLock()
	if db, ok := m.dbs[site]; ok {
		m.mu.RUnlock()
		return db, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if db, ok := m.dbs[site]; ok {
		return db, nil
	}

	dbPath := filepath.Join(m.basePath, site+".db")
	db, err := sql.Open(driverName, dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Initialize schema
	if _, err := db.Exec(initialSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	m.dbs[site] = db
	return db, nil
}

// ListSites returns a list of all known sites (based on existing database files).
func (m *Manager) ListSites() ([]string, error) {
	entries, err := os.ReadDir(m.basePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}

	var sites []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if filepath.Ext(name) == ".db" {
			sites = append(sites, name[:len(name)-3])
		}
	}
	return sites, nil
}

// Close closes all database connections.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for site, db := range m.dbs {
		if err := db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close %s: %w", site, err))
		}
	}
	m.dbs = make(map[string]*sql.DB)

	if len(errs) > 0 {
		return fmt.Errorf("errors closing databases: %v", errs)
	}
	return nil
}
