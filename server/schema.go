package main

import (
	"fmt"

	"mcportal/db"
)

func ensureSiteSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS players (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			uuid TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			online INTEGER DEFAULT 0,
			last_seen TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS applications (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			mc_name TEXT NOT NULL,
			dc_name TEXT NOT NULL,
			age INTEGER NOT NULL,
			how_found TEXT,
			experience TEXT,
			why_join TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS wait_list (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT NOT NULL UNIQUE,
			created_at TEXT NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.SiteDB.Exec(stmt); err != nil {
			return fmt.Errorf("schema exec failed: %w", err)
		}
	}

	if err := ensureColumnExists("players", "last_seen", `ALTER TABLE players ADD COLUMN last_seen TEXT`); err != nil {
		return err
	}

	return nil
}

func ensureColumnExists(tableName, columnName, alterStmt string) error {
	rows, err := db.SiteDB.Query("PRAGMA table_info(" + tableName + ")")
	if err != nil {
		return fmt.Errorf("table_info query failed for %s: %w", tableName, err)
	}
	defer rows.Close()

	for rows.Next() {
		var cid int
		var name string
		var ctype string
		var notNull int
		var defaultValue interface{}
		var pk int
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &defaultValue, &pk); err != nil {
			return fmt.Errorf("table_info scan failed for %s: %w", tableName, err)
		}
		if name == columnName {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("table_info row error for %s: %w", tableName, err)
	}

	if _, err := db.SiteDB.Exec(alterStmt); err != nil {
		return fmt.Errorf("alter table failed for %s.%s: %w", tableName, columnName, err)
	}
	return nil
}
