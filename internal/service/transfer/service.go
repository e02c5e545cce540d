package transfer

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/cmlabs-hris/capacity-planner/internal/domain/task"
	"github.com/cmlabs-hris/capacity-planner/internal/pkg/numeric"
)

// TaskStore is the part of the store imports write to.
type TaskStore interface {
	ReplaceTasks(ctx context.Context, tasks []task.Task) error
	Workshops() []task.Workshop
	WorkshopName(id numeric.Value) string
}

type FilteredTasks interface {
	Filtered() []task.Item
}

// Service exports the filtered task view and imports task lists.
type Service struct {
	store  TaskStore
	tasks  FilteredTasks
	newID  func() string
	logger *slog.Logger
}

type Option func(*Service)

func WithIDGenerator(fn func() string) Option {
	return func(s *Service) { s.newID = fn }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func NewService(store TaskStore, tasks FilteredTasks, opts ...Option) *Service {
	s := &Service{
		store:  store,
		tasks:  tasks,
		newID:  func() string { return uuid.Must(uuid.NewV7()).String() },
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) replace(ctx context.Context, tasks []task.Task, source string) (int, error) {
	for i := range tasks {
		if tasks[i].ID == "" {
			tasks[i].ID = s.newID()
		}
	}
	if err := s.store.ReplaceTasks(ctx, tasks); err != nil {
		return 0, err
	}
	s.logger.Info("tasks imported", slog.String("source", source), slog.Int("count", len(tasks)))
	return len(tasks), nil
}
