// Package store is the sqlite persistence layer: the feed subscription
// table and the notified-articles dedup cache. Each repository type owns
// its table; nothing else in the program touches the database.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const schema = `
	CREATE TABLE IF NOT EXISTS feeds (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		url         TEXT NOT NULL UNIQUE,
		feed_url    TEXT NOT NULL DEFAULT '',
		title       TEXT NOT NULL DEFAULT '',
		source_type TEXT NOT NULL DEFAULT '',
		created_at  DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_feeds_url ON feeds(url);

	CREATE TABLE IF NOT EXISTS notified_articles (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		feed_title  TEXT NOT NULL,
		article_id  TEXT NOT NULL,
		notified_at DATETIME NOT NULL,
		UNIQUE (feed_title, article_id)
	);
	CREATE INDEX IF NOT EXISTS idx_notified_key ON notified_articles(feed_title, article_id);
`

// Store holds the database handles. A single write connection keeps
// sqlite happy under concurrent feed cycles; reads go through a
// separate pool.
type Store struct {
	readDB  *sql.DB
	writeDB *sql.DB
}

func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating db dir: %w", err)
	}

	writeDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening write db: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	readDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		writeDB.Close()
		return nil, fmt.Errorf("opening read db: %w", err)
	}

	s := &Store{readDB: readDB, writeDB: writeDB}
	if _, err := writeDB.Exec(schema); err != nil {
		s.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	var first error
	for _, db := range []*sql.DB{s.readDB, s.writeDB} {
		if db == nil {
			continue
		}
		if err := db.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Stats reports row counts for the stats command.
func (s *Store) Stats() (feeds, notified int64, err error) {
	if err = s.readDB.QueryRow("SELECT COUNT(*) FROM feeds").Scan(&feeds); err != nil {
		return 0, 0, fmt.Errorf("counting feeds: %w", err)
	}
	if err = s.readDB.QueryRow("SELECT COUNT(*) FROM notified_articles").Scan(&notified); err != nil {
		return 0, 0, fmt.Errorf("counting notified articles: %w", err)
	}
	return feeds, notified, nil
}
