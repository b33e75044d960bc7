// Package history records collected listings in a SQLite database so later
// runs can tell new postings from ones already seen or already reported.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/spigell/jobsai/internal/jobs"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS listings (
		listing_id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		company TEXT NOT NULL,
		url TEXT NOT NULL,
		source TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS searches (
		search_id INTEGER PRIMARY KEY AUTOINCREMENT,
		search_term TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS searches_listings (
		search_id INTEGER,
		listing_id TEXT,
		first_seen TEXT NOT NULL,
		last_seen TEXT NOT NULL,
		PRIMARY KEY (search_id, listing_id),
		FOREIGN KEY (search_id) REFERENCES searches(search_id),
		FOREIGN KEY (listing_id) REFERENCES listings(listing_id)
	)`,
	`CREATE TABLE IF NOT EXISTS reported (
		url TEXT PRIMARY KEY,
		reported_at TEXT NOT NULL
	)`,
}

// DB is the listing history store.
type DB struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the database at path.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history database %q: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating history tables: %w", err)
		}
	}

	return &DB{db: db, now: time.Now}, nil
}

// Close releases the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Record stores the listings found for one search term. New pairs get
// first_seen and last_seen set to now; known pairs only move last_seen.
// Listings without an identity are skipped.
func (d *DB) Record(ctx context.Context, query string, listings []jobs.Listing) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var searchID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO searches (search_term) VALUES (?)
		ON CONFLICT(search_term) DO UPDATE SET search_term=search_term
		RETURNING search_id`, query).Scan(&searchID)
	if err != nil {
		return fmt.Errorf("recording search %q: %w", query, err)
	}

	timestamp := d.now().UTC().Format(time.RFC3339)
	for _, l := range listings {
		id := l.Identity()
		if id == "" {
			continue
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO listings (listing_id, title, company, url, source)
			VALUES (?, ?, ?, ?, ?)`,
			id, l.Title, l.Company, l.URL, l.Source); err != nil {
			return fmt.Errorf("recording listing %q: %w", id, err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO searches_listings (search_id, listing_id, first_seen, last_seen)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(search_id, listing_id) DO UPDATE SET last_seen = excluded.last_seen`,
			searchID, id, timestamp, timestamp); err != nil {
			return fmt.Errorf("recording sighting of %q: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing history: %w", err)
	}

	return nil
}

// Sighting is when a listing was first and last collected for a search.
type Sighting struct {
	Query     string
	FirstSeen time.Time
	LastSeen  time.Time
}

// Sightings returns every search that has collected the listing.
func (d *DB) Sightings(ctx context.Context, identity string) ([]Sighting, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT s.search_term, sl.first_seen, sl.last_seen
		FROM searches_listings sl
		JOIN searches s ON s.search_id = sl.search_id
		WHERE sl.listing_id = ?
		ORDER BY s.search_term`, identity)
	if err != nil {
		return nil, fmt.Errorf("querying sightings: %w", err)
	}
	defer rows.Close()

	var result []Sighting
	for rows.Next() {
		var (
			s           Sighting
			first, last string
		)
		if err := rows.Scan(&s.Query, &first, &last); err != nil {
			return nil, err
		}
		if s.FirstSeen, err = time.Parse(time.RFC3339, first); err != nil {
			return nil, fmt.Errorf("parsing first_seen: %w", err)
		}
		if s.LastSeen, err = time.Parse(time.RFC3339, last); err != nil {
			return nil, fmt.Errorf("parsing last_seen: %w", err)
		}
		result = append(result, s)
	}

	return result, rows.Err()
}

// MarkReported remembers that the URLs were included in an analysis.
func (d *DB) MarkReported(ctx context.Context, urls []string) error {
	timestamp := d.now().UTC().Format(time.RFC3339)
	for _, url := range urls {
		if _, err := d.db.ExecContext(ctx,
			`INSERT INTO reported (url, reported_at) VALUES (?, ?) ON CONFLICT(url) DO NOTHING`,
			url, timestamp); err != nil {
			return fmt.Errorf("marking %q as reported: %w", url, err)
		}
	}
	return nil
}

// Reported returns the set of URLs included in earlier analyses.
func (d *DB) Reported(ctx context.Context) (map[string]struct{}, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT url FROM reported`)
	if err != nil {
		return nil, fmt.Errorf("querying reported listings: %w", err)
	}
	defer rows.Close()

	result := make(map[string]struct{})
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, err
		}
		result[url] = struct{}{}
	}

	return result, rows.Err()
}
