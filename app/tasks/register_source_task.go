package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"cms-mirror/app/config"
	"cms-mirror/app/database"
)

type RegisterSourceTask struct {
	Task
	Source     *config.Source
	sourceRepo database.SourceRepository
}

func NewRegisterSourceTask(sourceName string, source *config.Source, sourceRepo database.SourceRepository) *RegisterSourceTask {
	return &RegisterSourceTask{
		Task:       NewTask(TaskTypeRegisterSource, sourceName),
		Source:     source,
		sourceRepo: sourceRepo,
	}
}

func (t *RegisterSourceTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	err := t.sourceRepo.UpsertSource(t.Source.Name, t.Source.URL)
	if err != nil {
		slog.Error("Task failed", "type", "RegisterSource", "source", t.SourceName, "error", err)
		return fmt.Errorf("failed to register source in database: %w", err)
	}

	slog.Info("Task completed",
		"type", "RegisterSource",
		"source", t.SourceName,
		"duration", t.GetDuration())

	return nil
}
