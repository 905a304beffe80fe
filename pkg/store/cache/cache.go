// Package cache is a small sqlite-backed blob store for fetched reports
// and the product-to-app mapping, so repeated runs for the same period
// do not hit the network.
package cache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Blob classes. Reports are immutable once published and never expire;
// the app mapping drifts as products are added and carries a TTL.
const (
	ClassReport  = "report"
	ClassMapping = "mapping"

	// Singleton key for the mapping class.
	MappingKey = "apps"

	MappingTTL = 7 * 24 * time.Hour
)

// ErrMiss distinguishes an absent key from a storage failure.
var ErrMiss = errors.New("cache miss")

// Envelope wraps a cached payload with the time it was stored. Validity
// is a pure predicate over an injected clock so TTL expiry is testable.
type Envelope struct {
	StoredAt time.Time       `json:"stored_at"`
	Payload  json.RawMessage `json:"payload"`
}

// Valid reports whether the envelope is still fresh at now.
func (e Envelope) Valid(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.StoredAt) < ttl
}

type Store struct {
	db *sql.DB
}

// Open opens (or creates) the cache database at path. Pass ":memory:"
// for an in-memory store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	// One connection keeps :memory: databases coherent across queries.
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS blobs (
		class     TEXT NOT NULL,
		key       TEXT NOT NULL,
		stored_at DATETIME NOT NULL,
		body      BLOB NOT NULL,
		PRIMARY KEY (class, key)
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create blobs table: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Put stores a blob, replacing any previous value for (class, key).
func (s *Store) Put(class, key string, body []byte, now time.Time) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO blobs (class, key, stored_at, body) VALUES (?,?,?,?)`,
		class, key, now.Format(time.RFC3339), body,
	)
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", class, key, err)
	}
	return nil
}

// Get returns the blob and its storage time, or ErrMiss.
func (s *Store) Get(class, key string) ([]byte, time.Time, error) {
	var body []byte
	var storedAt string
	err := s.db.QueryRow(
		`SELECT body, stored_at FROM blobs WHERE class = ? AND key = ?`,
		class, key,
	).Scan(&body, &storedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, ErrMiss
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("get %s/%s: %w", class, key, err)
	}

	at, err := time.Parse(time.RFC3339, storedAt)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("get %s/%s: bad timestamp: %w", class, key, err)
	}
	return body, at, nil
}

// GetReport returns the cached raw report for a period, or ErrMiss.
func (s *Store) GetReport(periodID string) (string, error) {
	body, _, err := s.Get(ClassReport, periodID)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// PutReport caches the raw report text for a period.
func (s *Store) PutReport(periodID, raw string, now time.Time) error {
	return s.Put(ClassReport, periodID, []byte(raw), now)
}

// GetMapping returns the cached mapping envelope if present and still
// fresh at now; an expired entry reads as a miss.
func (s *Store) GetMapping(now time.Time) (json.RawMessage, error) {
	body, at, err := s.Get(ClassMapping, MappingKey)
	if err != nil {
		return nil, err
	}

	env := Envelope{StoredAt: at, Payload: body}
	if !env.Valid(now, MappingTTL) {
		return nil, ErrMiss
	}
	return env.Payload, nil
}

// PutMapping caches the serialized mapping, restarting its TTL.
func (s *Store) PutMapping(payload json.RawMessage, now time.Time) error {
	return s.Put(ClassMapping, MappingKey, payload, now)
}
