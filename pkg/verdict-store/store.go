// Package verdictstore persists scan verdicts keyed by the SHA-256 of
// the payload, so callers can skip re-submitting content the server
// has already judged.
package verdictstore

import (
	"crypto/sha256"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/glebarez/go-sqlite"

	"github.com/imicap/icap"
)

// Record is one stored verdict.
type Record struct {
	Verdict icap.Verdict
	Scanned time.Time
}

// StoreProvider is an interface for a verdict store.
//
// Implementations must be thread-safe!
type StoreProvider interface {
	// Get returns the stored verdict for the given key, if it exists,
	// along with a boolean indicating whether retrieval was
	// successful.
	Get(key string) (Record, bool, error)
	// Put stores the verdict under the given key, overwriting any
	// earlier record.
	Put(key string, record Record) error
	// Purge removes the record for the given key.
	Purge(key string)
}

// Key returns the store key for a payload: its SHA-256 in hex.
func Key(payload []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(payload))
}

type MemStore struct {
	mutex *sync.RWMutex
	db    map[string]Record
}

func NewMemStore() MemStore {
	return MemStore{
		mutex: &sync.RWMutex{},
		db:    make(map[string]Record),
	}
}

func (m MemStore) Get(key string) (Record, bool, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	record, ok := m.db[key]
	return record, ok, nil
}

func (m MemStore) Put(key string, record Record) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.db[key] = record
	return nil
}

func (m MemStore) Purge(key string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.db, key)
}

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(filename string) SQLiteStore {
	db, err := sql.Open("sqlite", filename)
	if err != nil {
		panic(err)
	}
	_, err = db.Exec("CREATE TABLE IF NOT EXISTS verdicts (key TEXT PRIMARY KEY, verdict INTEGER, scanned INTEGER)")
	if err != nil {
		panic(err)
	}
	return SQLiteStore{
		db: db,
	}
}

func (s SQLiteStore) Get(key string) (Record, bool, error) {
	var verdict int
	var scanned int64
	err := s.db.QueryRow("SELECT verdict, scanned FROM verdicts WHERE key = ?", key).Scan(&verdict, &scanned)
	if err == sql.ErrNoRows {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, err
	}
	return Record{Verdict: icap.Verdict(verdict), Scanned: time.Unix(scanned, 0)}, true, nil
}

func (s SQLiteStore) Put(key string, record Record) error {
	_, err := s.db.Exec("INSERT OR REPLACE INTO verdicts (key, verdict, scanned) VALUES (?, ?, ?)",
		key, int(record.Verdict), record.Scanned.Unix())
	return err
}

func (s SQLiteStore) Purge(key string) {
	_, err := s.db.Exec("DELETE FROM verdicts WHERE key = ?", key)
	if err != nil {
		panic(err)
	}
}
