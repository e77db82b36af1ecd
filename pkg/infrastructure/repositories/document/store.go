// Package document implements the recipe and baseline record stores on top of a
// storage backend. Each store is one JSON document that is read and written as a
// whole; reads are served from a short-lived cache.
package document

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/vsinha/shoplist/pkg/domain/repositories"
	"github.com/vsinha/shoplist/pkg/infrastructure/storage"
)

// DefaultTTL bounds how stale a cached document may be before it is re-read.
const DefaultTTL = time.Second

// Observer receives store activity, e.g. for metrics.
type Observer interface {
	ObserveLoad(store string, cached bool)
	ObserveWrite(store string, err error)
}

// Option configures a store.
type Option func(*options)

type options struct {
	ttl      time.Duration
	now      func() time.Time
	logger   *zap.Logger
	observer Observer
}

// WithTTL sets the cache lifetime. Zero disables caching.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) { o.ttl = ttl }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithObserver registers an Observer.
func WithObserver(observer Observer) Option {
	return func(o *options) { o.observer = observer }
}

func buildOptions(opts []Option) options {
	o := options{ttl: DefaultTTL, now: time.Now, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// codec converts between a document and its records.
type codec[V any] interface {
	decode(data []byte) (map[string]V, error)
	encode(records map[string]V) ([]byte, error)
	clone(v V) V
	rename(v V, name string) V
}

// recordStore is a named-record map persisted as a single document.
type recordStore[V any] struct {
	name    string
	key     string
	backend storage.Backend
	codec   codec[V]
	opts    options

	mu       sync.Mutex
	cached   map[string]V
	loadedAt time.Time
	valid    bool
}

func newRecordStore[V any](name, key string, backend storage.Backend, c codec[V], opts []Option) *recordStore[V] {
	return &recordStore[V]{
		name:    name,
		key:     key,
		backend: backend,
		codec:   c,
		opts:    buildOptions(opts),
	}
}

// load returns a copy of the records, re-reading the document when the cache expired.
func (s *recordStore[V]) load(ctx context.Context) (map[string]V, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.valid && s.opts.ttl > 0 && s.opts.now().Sub(s.loadedAt) < s.opts.ttl {
		s.observeLoad(true)
		return s.copyOf(s.cached), nil
	}
	records, err := s.readLocked(ctx)
	if err != nil {
		return nil, err
	}
	s.observeLoad(false)
	return s.copyOf(records), nil
}

// readLocked reads the document from the backend and refreshes the cache.
func (s *recordStore[V]) readLocked(ctx context.Context) (map[string]V, error) {
	data, err := s.backend.Read(ctx, s.key)
	if errors.Is(err, storage.ErrNotFound) {
		s.setCacheLocked(make(map[string]V))
		return s.cached, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.name, err)
	}
	records, err := s.codec.decode(data)
	if err != nil {
		s.valid = false
		return nil, &repositories.ParseError{Store: s.name, Err: err}
	}
	s.setCacheLocked(records)
	s.opts.logger.Debug("store loaded",
		zap.String("store", s.name),
		zap.Int("records", len(records)),
	)
	return records, nil
}

func (s *recordStore[V]) setCacheLocked(records map[string]V) {
	s.cached = records
	s.loadedAt = s.opts.now()
	s.valid = true
}

// save overwrites the whole document and refreshes the cache.
func (s *recordStore[V]) save(ctx context.Context, records map[string]V) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ctx, s.copyOf(records))
}

func (s *recordStore[V]) saveLocked(ctx context.Context, records map[string]V) error {
	data, err := s.codec.encode(records)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", s.name, err)
	}
	err = s.backend.Write(ctx, s.key, data)
	if s.opts.observer != nil {
		s.opts.observer.ObserveWrite(s.name, err)
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", s.name, err)
	}
	s.setCacheLocked(records)
	s.opts.logger.Info("store saved",
		zap.String("store", s.name),
		zap.Int("records", len(records)),
	)
	return nil
}

// mutate re-reads the document, applies fn and persists the result.
// fn returning false leaves the document untouched.
func (s *recordStore[V]) mutate(ctx context.Context, fn func(records map[string]V) (bool, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.readLocked(ctx)
	if err != nil {
		return err
	}
	records := s.copyOf(current)
	changed, err := fn(records)
	if err != nil || !changed {
		return err
	}
	return s.saveLocked(ctx, records)
}

func (s *recordStore[V]) upsert(ctx context.Context, name string, v V) error {
	return s.mutate(ctx, func(records map[string]V) (bool, error) {
		records[name] = s.codec.rename(v, name)
		return true, nil
	})
}

func (s *recordStore[V]) delete(ctx context.Context, name string) error {
	return s.mutate(ctx, func(records map[string]V) (bool, error) {
		if _, ok := records[name]; !ok {
			return false, nil
		}
		delete(records, name)
		return true, nil
	})
}

// replace stores v under name and drops oldName in the same write.
// An empty or equal oldName makes it a plain upsert.
func (s *recordStore[V]) replace(ctx context.Context, oldName, name string, v V) error {
	return s.mutate(ctx, func(records map[string]V) (bool, error) {
		if oldName != "" && oldName != name {
			delete(records, oldName)
		}
		records[name] = s.codec.rename(v, name)
		return true, nil
	})
}

// rename is delete(old) followed by upsert(new) in a single write.
func (s *recordStore[V]) rename(ctx context.Context, oldName, newName string) error {
	return s.mutate(ctx, func(records map[string]V) (bool, error) {
		v, ok := records[oldName]
		if !ok {
			return false, fmt.Errorf("%s %q: %w", s.name, oldName, repositories.ErrRecordNotFound)
		}
		if oldName == newName {
			return false, nil
		}
		delete(records, oldName)
		records[newName] = s.codec.rename(v, newName)
		return true, nil
	})
}

// invalidate drops the cache so the next load re-reads the document.
func (s *recordStore[V]) invalidate() {
	s.mu.Lock()
	s.valid = false
	s.mu.Unlock()
}

func (s *recordStore[V]) copyOf(records map[string]V) map[string]V {
	out := make(map[string]V, len(records))
	for name, v := range records {
		out[name] = s.codec.clone(v)
	}
	return out
}

func (s *recordStore[V]) observeLoad(cached bool) {
	if s.opts.observer != nil {
		s.opts.observer.ObserveLoad(s.name, cached)
	}
}
