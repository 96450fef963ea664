package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cms-mirror/app/config"
	"cms-mirror/app/database"
)

type SyncSourceTask struct {
	Task
	Source     *config.Source
	importer   ImporterInterface
	sourceRepo database.SourceRepository
}

func NewSyncSourceTask(sourceName string, source *config.Source, importer ImporterInterface, sourceRepo database.SourceRepository) *SyncSourceTask {
	return &SyncSourceTask{
		Task:       NewTask(TaskTypeSyncSource, sourceName),
		Source:     source,
		importer:   importer,
		sourceRepo: sourceRepo,
	}
}

func (t *SyncSourceTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.Source.Settings.Enabled {
		slog.Debug("Source disabled, skipping", "source", t.SourceName)
		return nil
	}

	report, err := t.importer.Run(ctx, t.Source)
	if err != nil {
		return fmt.Errorf("failed to sync source: %w", err)
	}

	nextSync := time.Now().UTC().Add(time.Duration(t.Source.Settings.SyncInterval) * time.Second)
	if err := t.sourceRepo.UpdateSyncTimes(t.SourceName, nextSync); err != nil {
		return fmt.Errorf("failed to update sync times: %w", err)
	}

	slog.Info("Task completed",
		"type", "SyncSource",
		"source", t.SourceName,
		"duration", t.GetDuration(),
		"total", report.Total,
		"created", report.Created,
		"updated", report.Updated,
		"skipped", report.Skipped,
		"warnings", len(report.Warnings))

	return nil
}
