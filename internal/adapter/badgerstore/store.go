// Package badgerstore keeps the simulation history in an embedded BadgerDB.
//
// Records are stored as JSON under "sim/<id>". IDs are UUIDv7 strings, so key
// order is creation order and the newest records are found by iterating the
// prefix in reverse.
package badgerstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/couchcryptid/asteroid-impact-service/internal/domain"
	"github.com/couchcryptid/asteroid-impact-service/internal/simulation"
	"github.com/dgraph-io/badger/v4"
)

const keyPrefix = "sim/"

// Config holds configuration for the store's database.
type Config struct {
	// Path is the directory for database files. Ignored when InMemory is true.
	Path string

	// InMemory keeps all data in RAM. Useful for tests and demos.
	InMemory bool

	// SyncWrites fsyncs every write.
	SyncWrites bool

	// Logger receives Badger's internal logs. Nil disables them.
	Logger *slog.Logger
}

// Store implements simulation.Store.
type Store struct {
	db *badger.DB
}

// Open creates the database directory if needed and opens the store.
func Open(cfg Config) (*Store, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent store")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("create store directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}

	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger store: %w", err)
	}
	return &Store{db: db}, nil
}

// Save writes rec under its ID. Existing records are never overwritten.
func (s *Store) Save(_ context.Context, rec domain.SimulationRecord) error {
	if rec.ID == "" {
		return errors.New("simulation record has no id")
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal simulation: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		key := recordKey(rec.ID)
		if _, err := txn.Get(key); err == nil {
			return fmt.Errorf("simulation %s already exists", rec.ID)
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set(key, data)
	})
}

// Get loads a record by ID.
func (s *Store) Get(_ context.Context, id string) (domain.SimulationRecord, error) {
	var rec domain.SimulationRecord
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(recordKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.SimulationRecord{}, fmt.Errorf("%w: %s", simulation.ErrNotFound, id)
	}
	if err != nil {
		return domain.SimulationRecord{}, fmt.Errorf("get simulation %s: %w", id, err)
	}
	return rec, nil
}

// ListRecent returns up to limit records, newest first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]domain.SimulationRecord, error) {
	if limit <= 0 {
		return nil, nil
	}

	recs := make([]domain.SimulationRecord, 0, limit)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse iteration must seek past the last key carrying the prefix.
		seek := append([]byte(keyPrefix), 0xFF)
		for it.Seek(seek); it.ValidForPrefix(opts.Prefix) && len(recs) < limit; it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var rec domain.SimulationRecord
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			recs = append(recs, rec)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list simulations: %w", err)
	}
	return recs, nil
}

// CheckReadiness reports whether the database is open.
func (s *Store) CheckReadiness(_ context.Context) error {
	if s.db.IsClosed() {
		return errors.New("simulation store closed")
	}
	return nil
}

// Close flushes and closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func recordKey(id string) []byte {
	return []byte(keyPrefix + id)
}

// badgerLogger adapts slog.Logger to Badger's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...any) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...any) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...any) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
