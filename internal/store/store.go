// Package store owns the planner state: the weekly-planning snapshot
// (werkplaats, employees, absences) and the board (workshops, tasks,
// capacity, leave matrix). Every mutation is persisted through a
// persistence.Repository and announced to a Notifier.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cmlabs-hris/capacity-planner/internal/domain/leave"
	"github.com/cmlabs-hris/capacity-planner/internal/domain/persistence"
	"github.com/cmlabs-hris/capacity-planner/internal/domain/task"
	"github.com/cmlabs-hris/capacity-planner/internal/fixtures"
)

const (
	SnapshotKey = "verlofplanner.v2.2"
	BoardKey    = "planbord.v1"
)

// Scope names the part of the state a mutation touched.
type Scope string

const (
	ScopeSnapshot Scope = "snapshot"
	ScopeTasks    Scope = "tasks"
	ScopeFilters  Scope = "filters"
	ScopeCapacity Scope = "capacity"
	ScopeLeave    Scope = "leave"
	ScopeAll      Scope = "all"
)

// Change is emitted after every mutation.
type Change struct {
	Version uint64 `json:"version"`
	Scope   Scope  `json:"scope"`
}

// Notifier observes state changes. Notify must not block.
type Notifier interface {
	Notify(Change)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Change)

func (f NotifierFunc) Notify(c Change) { f(c) }

type Store struct {
	mu sync.RWMutex

	repo     persistence.Repository
	seed     fixtures.Seed
	catalog  leave.Catalog
	logger   *slog.Logger
	notifier Notifier
	newID    func() string
	now      func() time.Time

	snapshot Snapshot
	board    Board
	filters  task.Filter
	version  uint64
}

type Option func(*Store)

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

func WithNotifier(n Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

// WithIDGenerator replaces the UUIDv7 generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New loads the state from repo. Missing or unreadable blobs fall back to
// the seed; only repository failures are returned.
func New(ctx context.Context, repo persistence.Repository, seed fixtures.Seed, opts ...Option) (*Store, error) {
	s := &Store{
		repo:     repo,
		seed:     seed,
		catalog:  leave.NewCatalog(seed.LeaveTypes),
		logger:   slog.Default(),
		notifier: NotifierFunc(func(Change) {}),
		newID:    newUUID,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	snapshot, err := s.load(ctx, SnapshotKey)
	if err != nil {
		return nil, err
	}
	if snapshot == nil {
		s.snapshot = s.defaultSnapshot()
	} else {
		var ok bool
		if s.snapshot, ok = s.normalizeSnapshot(snapshot); !ok {
			s.logger.Warn("stored snapshot unreadable, using defaults", "key", SnapshotKey)
		}
	}

	board, err := s.load(ctx, BoardKey)
	if err != nil {
		return nil, err
	}
	if board == nil {
		s.board = s.defaultBoard()
	} else {
		var ok bool
		if s.board, ok = s.normalizeBoard(board); !ok {
			s.logger.Warn("stored board unreadable, using defaults", "key", BoardKey)
		}
	}

	return s, nil
}

func newUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func (s *Store) load(ctx context.Context, key string) ([]byte, error) {
	raw, err := s.repo.Get(ctx, key)
	if errors.Is(err, persistence.ErrNotFound) || (err == nil && raw == "") {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	return []byte(raw), nil
}

// Version counts mutations since the store was opened.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Catalog returns the configured leave types.
func (s *Store) Catalog() leave.Catalog {
	return s.catalog
}

// Now is the store clock, used for "today" in derived views.
func (s *Store) Now() time.Time {
	return s.now()
}

// mutate runs fn under the write lock, persists the touched scope and
// notifies observers. A persistence error is returned after the in-memory
// change has been applied.
func (s *Store) mutate(ctx context.Context, scope Scope, fn func() error) error {
	s.mu.Lock()
	if err := fn(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.version++
	change := Change{Version: s.version, Scope: scope}
	err := s.persistLocked(ctx, scope)
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("persist state failed", "scope", scope, "error", err)
	}
	s.notifier.Notify(change)
	return err
}

func (s *Store) persistLocked(ctx context.Context, scope Scope) error {
	switch scope {
	case ScopeFilters:
		return nil
	case ScopeSnapshot:
		return s.putLocked(ctx, SnapshotKey, s.snapshot)
	case ScopeAll:
		snapshot, err := json.Marshal(s.snapshot)
		if err != nil {
			return fmt.Errorf("encode snapshot: %w", err)
		}
		board, err := json.Marshal(s.board)
		if err != nil {
			return fmt.Errorf("encode board: %w", err)
		}
		return s.repo.SetMany(ctx, map[string]string{
			SnapshotKey: string(snapshot),
			BoardKey:    string(board),
		})
	default:
		return s.putLocked(ctx, BoardKey, s.board)
	}
}

func (s *Store) putLocked(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.repo.Set(ctx, key, string(data))
}

// ResetAll restores both the snapshot and the board to the seed. The task
// version keeps counting up so cached filter results are never reused.
func (s *Store) ResetAll(ctx context.Context) error {
	return s.mutate(ctx, ScopeAll, func() error {
		s.snapshot = s.defaultSnapshot()
		board := s.defaultBoard()
		board.TasksVersion = s.board.TasksVersion + 1
		s.board = board
		s.filters = task.Filter{}
		return nil
	})
}
