package tasks

import (
	"context"
	"time"

	"cms-mirror/app/config"
	"cms-mirror/app/mirror"
)

type TaskInterface interface {
	Execute(ctx context.Context) error
	GetID() string
	GetType() TaskType
	GetSourceName() string
	Start()
	GetDuration() time.Duration
}

// ImporterInterface is the engine operation tasks drive. A failed run is not
// retried here; the next scheduled tick naturally re-attempts anything the
// failed run left unimported.
type ImporterInterface interface {
	Run(ctx context.Context, source *config.Source) (*mirror.Report, error)
}

var _ ImporterInterface = (*mirror.Importer)(nil)

// TaskSchedulerInterface defines the interface for background task scheduling.
// Used by the main application and the API layer to enqueue work.
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}
