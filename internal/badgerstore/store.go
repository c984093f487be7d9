package badgerstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/annaglova/breedhub-sub002/internal/model"
	"github.com/annaglova/breedhub-sub002/internal/nodestore"
	"github.com/dgraph-io/badger/v4"
)

const keyPrefix = "node/"

func nodeKey(id string) []byte {
	return []byte(keyPrefix + id)
}

// Store is a BadgerDB-backed nodestore.Store.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
	subs   nodestore.Subscribers

	// writeMu orders commits so subscribers see events in commit order.
	writeMu sync.Mutex

	stopGC chan struct{}
	gcDone chan struct{}
}

// Open opens (or creates) a store with the given configuration.
func Open(cfg Config) (*Store, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent database")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)

	logger := cfg.Logger
	if logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: logger})
	} else {
		opts = opts.WithLogger(nil)
		logger = slog.New(slog.DiscardHandler)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}

	s := &Store{db: db, logger: logger}
	if cfg.GCInterval > 0 && !cfg.InMemory {
		s.stopGC = make(chan struct{})
		s.gcDone = make(chan struct{})
		go s.runGC(cfg.GCInterval, cfg.GCDiscardRatio)
	}
	return s, nil
}

// Close stops background GC and closes the database.
func (s *Store) Close() error {
	if s.stopGC != nil {
		close(s.stopGC)
		<-s.gcDone
	}
	return s.db.Close()
}

func (s *Store) runGC(interval time.Duration, ratio float64) {
	defer close(s.gcDone)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopGC:
			return
		case <-ticker.C:
			// ErrNoRewrite means nothing was worth collecting.
			if err := s.db.RunValueLogGC(ratio); err == nil {
				s.logger.Debug("badger value log GC completed")
			} else if !errors.Is(err, badger.ErrNoRewrite) {
				s.logger.Warn("badger value log GC error", "error", err)
			}
		}
	}
}

// GetAll returns every node, including soft-deleted ones.
func (s *Store) GetAll(ctx context.Context) ([]*model.ConfigNode, error) {
	var out []*model.ConfigNode
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(keyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			var n model.ConfigNode
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &n)
			}); err != nil {
				return fmt.Errorf("decode %s: %w", item.Key(), err)
			}
			out = append(out, &n)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("get all nodes: %w", err)
	}
	return out, nil
}

// GetByID returns the node, or nil if it does not exist.
func (s *Store) GetByID(ctx context.Context, id string) (*model.ConfigNode, error) {
	var n *model.ConfigNode
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		n, err = get(txn, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get node '%s': %w", id, err)
	}
	return n, nil
}

// Upsert stores node.
func (s *Store) Upsert(ctx context.Context, node *model.ConfigNode) error {
	if node == nil || node.ID == "" {
		return fmt.Errorf("upsert: node must have an id")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	val, err := json.Marshal(node)
	if err != nil {
		return fmt.Errorf("encode node '%s': %w", node.ID, err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(nodeKey(node.ID), val)
	}); err != nil {
		return fmt.Errorf("upsert node '%s': %w", node.ID, err)
	}

	s.subs.Publish(nodestore.Event{Kind: nodestore.EventUpserted, Node: node})
	return nil
}

// SoftDelete marks the node deleted at the given time.
func (s *Store) SoftDelete(ctx context.Context, id string, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var deleted *model.ConfigNode
	err := s.db.Update(func(txn *badger.Txn) error {
		n, err := get(txn, id)
		if err != nil {
			return err
		}
		if n == nil {
			return nodestore.ErrNotFound
		}
		if n.Deleted {
			return nil
		}
		n.Deleted = true
		n.DeletedAt = &at
		n.UpdatedAt = at
		val, err := json.Marshal(n)
		if err != nil {
			return err
		}
		deleted = n
		return txn.Set(nodeKey(id), val)
	})
	if err != nil {
		return fmt.Errorf("soft delete '%s': %w", id, err)
	}

	if deleted != nil {
		s.subs.Publish(nodestore.Event{Kind: nodestore.EventDeleted, Node: deleted})
	}
	return nil
}

// Subscribe registers fn for change events.
func (s *Store) Subscribe(fn func(nodestore.Event)) func() {
	return s.subs.Add(fn)
}

func get(txn *badger.Txn, id string) (*model.ConfigNode, error) {
	item, err := txn.Get(nodeKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var n model.ConfigNode
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &n)
	}); err != nil {
		return nil, err
	}
	return &n, nil
}

var _ nodestore.Store = (*Store)(nil)
