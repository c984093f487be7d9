package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/annaglova/breedhub-sub002/internal/ctxlog"
	"github.com/annaglova/breedhub-sub002/internal/nodestore"
	"github.com/annaglova/breedhub-sub002/internal/registry"
)

// Defaults for Options.
const (
	DefaultMaxCascadeNodes = 10000
	DefaultMaxCloneNodes   = 10000
)

// Options configures an Engine. The zero value is usable.
type Options struct {
	// Registry is the behavior and container table. Defaults to registry.New().
	Registry *registry.Registry
	// Opposites are mutually exclusive property pairs.
	Opposites [][2]string
	// MaxCascadeNodes caps the number of ancestors a single cascade may visit.
	MaxCascadeNodes int
	// MaxCloneNodes caps the number of nodes a clone or instantiation may copy.
	MaxCloneNodes int
	// User is stamped into CreatedBy/UpdatedBy.
	User string
	// Clock returns the current time. Defaults to time.Now.
	Clock func() time.Time
}

// Engine applies mutations to the configuration graph stored in a
// nodestore.Store and keeps every derived value consistent.
type Engine struct {
	mu sync.Mutex

	store      nodestore.Store
	reg        *registry.Registry
	opposites  map[string]string
	maxCascade int
	maxClone   int
	user       string
	clock      func() time.Time
}

// New creates an Engine over store.
func New(store nodestore.Store, opts Options) (*Engine, error) {
	if store == nil {
		return nil, fmt.Errorf("engine: store is required")
	}
	e := &Engine{
		store:      store,
		reg:        opts.Registry,
		opposites:  make(map[string]string),
		maxCascade: opts.MaxCascadeNodes,
		maxClone:   opts.MaxCloneNodes,
		user:       opts.User,
		clock:      opts.Clock,
	}
	if e.reg == nil {
		e.reg = registry.New()
	}
	if err := e.reg.Validate(); err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	if e.maxCascade <= 0 {
		e.maxCascade = DefaultMaxCascadeNodes
	}
	if e.maxClone <= 0 {
		e.maxClone = DefaultMaxCloneNodes
	}
	if e.clock == nil {
		e.clock = time.Now
	}
	for _, pair := range opts.Opposites {
		if err := e.registerOpposite(pair[0], pair[1]); err != nil {
			return nil, fmt.Errorf("engine: %w", err)
		}
	}
	return e, nil
}

// Registry returns the behavior table the engine dispatches on.
func (e *Engine) Registry() *registry.Registry {
	return e.reg
}

// RegisterOpposite declares two property IDs mutually exclusive. Adding one
// as a dependency silently drops the other. The relation is symmetric.
func (e *Engine) RegisterOpposite(a, b string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return wrapErr("register_opposite", a, e.registerOpposite(a, b))
}

func (e *Engine) registerOpposite(a, b string) error {
	if err := checkOppositePair(a, b, e.opposite); err != nil {
		return err
	}
	e.opposites[a] = b
	e.opposites[b] = a
	return nil
}

// checkOppositePair rejects a pair that is malformed or conflicts with a
// pair lookup already knows. Re-registering the same pair is allowed.
func checkOppositePair(a, b string, lookup func(string) (string, bool)) error {
	if a == "" || b == "" || a == b {
		return fmt.Errorf("%w: opposite pair needs two distinct ids, got '%s' and '%s'", ErrValidation, a, b)
	}
	for _, id := range []string{a, b} {
		other := a
		if id == a {
			other = b
		}
		if cur, ok := lookup(id); ok && cur != other {
			return fmt.Errorf("%w: '%s' is already opposite to '%s'", ErrValidation, id, cur)
		}
	}
	return nil
}

// Opposite returns the registered opposite of a property ID.
func (e *Engine) Opposite(id string) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.opposite(id)
}

func (e *Engine) opposite(id string) (string, bool) {
	o, ok := e.opposites[id]
	return o, ok
}

// mutate runs fn against a fresh snapshot and flushes the result.
func (e *Engine) mutate(ctx context.Context, op, id string, fn func(t *txn) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	args := []any{"op", op}
	if id != "" {
		args = append(args, "nodeID", id)
	}
	ctx, logger := ctxlog.With(ctx, args...)

	t, err := e.begin(ctx, logger)
	if err == nil {
		err = fn(t)
	}
	if err == nil {
		err = t.commit()
	}
	err = wrapErr(op, id, err)

	operationsTotal.WithLabelValues(op, errorKind(err)).Inc()
	operationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	if err != nil {
		logger.Warn("Operation failed", "error", err)
		return err
	}
	logger.Info("Operation applied", "writes", len(t.dirty), "duration", time.Since(start))
	return nil
}

// read runs fn against a fresh snapshot without flushing.
func (e *Engine) read(ctx context.Context, op, id string, fn func(t *txn) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx, logger := ctxlog.With(ctx, "op", op)
	t, err := e.begin(ctx, logger)
	if err == nil {
		err = fn(t)
	}
	return wrapErr(op, id, err)
}
