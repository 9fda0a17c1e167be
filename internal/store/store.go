// Package store provides the SQLite-backed local cache: session tokens,
// settings blobs, and per-context transaction lists.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/budgetwise/bwise/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// ErrNotFound is returned by Get when a key has no value.
var ErrNotFound = errors.New("store: key not found")

// Store provides SQLite-backed local caching.
type Store struct {
	db *sql.DB
}

// Open opens or creates the store database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening store db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the store database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the value stored under key, or ErrNotFound.
func (s *Store) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return value, err
}

// Put stores value under key, replacing any existing value.
func (s *Store) Put(key, value string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(`INSERT OR REPLACE INTO kv (key, value, updated_at)
		VALUES (?, ?, ?)`, key, value, now)
	return err
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	_, err := s.db.Exec("DELETE FROM kv WHERE key = ?", key)
	return err
}

// DeletePrefix removes every key starting with prefix.
func (s *Store) DeletePrefix(prefix string) error {
	_, err := s.db.Exec("DELETE FROM kv WHERE key LIKE ? || '%'", prefix)
	return err
}

// GetJSON unmarshals the value under key into v. A missing key returns
// ErrNotFound; a value that fails to parse is treated as absent.
func (s *Store) GetJSON(key string, v any) error {
	raw, err := s.Get(key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return ErrNotFound
	}
	return nil
}

// PutJSON marshals v and stores it under key.
func (s *Store) PutJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	return s.Put(key, string(data))
}

// Transactions returns the cached list for a context, newest first. A
// missing or unreadable cache yields an empty list, never an error: the
// cache is a convenience, callers re-fetch from the server regardless.
func (s *Store) Transactions(contextKey string) []model.Transaction {
	rows, err := s.db.Query(`SELECT record_id, kind, amount, title, description,
		category_id, tx_time, group_id, raw
		FROM transactions WHERE context_key = ? ORDER BY position`, contextKey)
	if err != nil {
		return nil
	}
	defer func() { _ = rows.Close() }()

	var txs []model.Transaction
	for rows.Next() {
		var t model.Transaction
		var id string
		var title, txTime, groupID, raw sql.NullString
		var categoryID sql.NullInt64

		err := rows.Scan(&id, &t.Kind, &t.Amount, &title, &t.Description,
			&categoryID, &txTime, &groupID, &raw)
		if err != nil {
			return nil
		}

		t.ID = model.ParseRecordID(id)
		if title.Valid {
			t.Title = title.String
		}
		if categoryID.Valid {
			t.CategoryID = int(categoryID.Int64)
		}
		if txTime.Valid && txTime.String != "" {
			t.Time, _ = time.Parse(time.RFC3339, txTime.String)
		}
		if groupID.Valid {
			t.GroupID = groupID.String
		}
		if raw.Valid && raw.String != "" {
			t.Raw = json.RawMessage(raw.String)
		}
		txs = append(txs, t)
	}
	if rows.Err() != nil {
		return nil
	}
	return txs
}

// ReplaceTransactions swaps the cached list for a context with txs,
// preserving their order.
func (s *Store) ReplaceTransactions(contextKey string, txs []model.Transaction) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM transactions WHERE context_key = ?", contextKey); err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for i, t := range txs {
		if err := insertTx(tx, contextKey, t, i, now); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// PrependTransaction puts t at the head of the context's cached list.
// Used after a server-confirmed create so the new record shows up without
// a full re-fetch.
func (s *Store) PrependTransaction(contextKey string, t model.Transaction) error {
	dbTx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = dbTx.Rollback() }()

	var minPos sql.NullInt64
	err = dbTx.QueryRow("SELECT MIN(position) FROM transactions WHERE context_key = ?", contextKey).Scan(&minPos)
	if err != nil {
		return err
	}
	pos := 0
	if minPos.Valid {
		pos = int(minPos.Int64) - 1
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if err := insertTx(dbTx, contextKey, t, pos, now); err != nil {
		return err
	}

	return dbTx.Commit()
}

// DeleteTransaction removes one cached record from a context.
func (s *Store) DeleteTransaction(contextKey string, id model.RecordID) error {
	_, err := s.db.Exec("DELETE FROM transactions WHERE context_key = ? AND record_id = ?",
		contextKey, id.String())
	return err
}

// ClearContext drops the cached transaction list for one context.
func (s *Store) ClearContext(contextKey string) error {
	_, err := s.db.Exec("DELETE FROM transactions WHERE context_key = ?", contextKey)
	return err
}

// ClearAll wipes every cached transaction and kv entry. Used on logout.
func (s *Store) ClearAll() error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM transactions"); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM kv"); err != nil {
		return err
	}
	return tx.Commit()
}

func insertTx(tx *sql.Tx, contextKey string, t model.Transaction, pos int, now string) error {
	txTime := ""
	if !t.Time.IsZero() {
		txTime = t.Time.UTC().Format(time.RFC3339)
	}
	raw := ""
	if len(t.Raw) > 0 {
		raw = string(t.Raw)
	}
	_, err := tx.Exec(`INSERT OR REPLACE INTO transactions
		(context_key, record_id, kind, amount, title, description,
		 category_id, tx_time, group_id, raw, position, cached_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		contextKey, t.ID.String(), string(t.Kind), t.Amount, t.Title, t.Description,
		t.CategoryID, txTime, t.GroupID, raw, pos, now,
	)
	return err
}
