package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"cms-mirror/app/cfg"
	"cms-mirror/app/config"
	"cms-mirror/app/database"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

type Scheduler struct {
	sourceCache *config.SourceCache
	sourceRepo  database.SourceRepository
	importer    ImporterInterface
	interval    time.Duration
	workerCount int
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	taskQueue   chan TaskInterface
}

func NewScheduler(sourceCache *config.SourceCache, sourceRepo database.SourceRepository,
	importer ImporterInterface) TaskSchedulerInterface {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := cfg.Get()

	return &Scheduler{
		sourceCache: sourceCache,
		sourceRepo:  sourceRepo,
		importer:    importer,
		interval:    time.Duration(cfg.SchedulerInterval) * time.Second,
		workerCount: cfg.WorkerCount,
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan TaskInterface, 100),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueStartupTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueTasks()
			}
		}
	}()

}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

func (s *Scheduler) enqueueStartupTasks() {
	sources := s.sourceCache.GetSources()
	if len(sources) == 0 {
		slog.Debug("No source configurations found")
		return
	}

	slog.Debug("Processing source configurations", "count", len(sources))

	for _, source := range sources {
		registerTask := NewRegisterSourceTask(source.Name, source, s.sourceRepo)
		if err := s.EnqueueTask(registerTask); err != nil {
			slog.Warn("Failed to enqueue RegisterSourceTask", "source", source.Name, "error", err)
			continue
		}

		if !source.Settings.Enabled {
			slog.Debug("Source disabled, skipping SyncSourceTask", "source", source.Name)
			continue
		}

		syncTask := NewSyncSourceTask(source.Name, source, s.importer, s.sourceRepo)
		if err := s.EnqueueTask(syncTask); err != nil {
			slog.Warn("Failed to enqueue SyncSourceTask", "source", source.Name, "error", err)
		}
	}
}

func (s *Scheduler) enqueueTasks() {
	sources := s.sourceCache.GetEnabledSources()
	if len(sources) == 0 {
		slog.Debug("No enabled source configurations found")
		return
	}

	slog.Debug("Checking enabled sources for scheduled syncs", "count", len(sources))

	for _, source := range sources {
		dbSource, err := s.sourceRepo.GetSource(source.Name)
		if err != nil {
			slog.Warn("Failed to get source from database, skipping", "source", source.Name, "error", err)
			continue
		}
		if dbSource == nil {
			slog.Warn("Source not found in database, skipping", "source", source.Name)
			continue
		}

		now := time.Now().UTC()
		if dbSource.NextSyncAt != nil && dbSource.NextSyncAt.After(now) {
			slog.Debug("Source not due for sync yet", "source", source.Name, "next_sync_at", dbSource.NextSyncAt)
			continue
		}

		syncTask := NewSyncSourceTask(source.Name, source, s.importer, s.sourceRepo)
		if err := s.EnqueueTask(syncTask); err != nil {
			slog.Warn("Failed to enqueue SyncSourceTask", "source", source.Name, "error", err)
		}
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)
	if err != nil {
		// No retry here: the next scheduled tick re-attempts anything a
		// failed run left unimported, and re-runs converge.
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "source", task.GetSourceName(), "error", err)
	}
}
