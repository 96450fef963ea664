package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"cms-mirror/app/config"
	"cms-mirror/app/database"
	"cms-mirror/app/mirror"
)

// MockSourceRepository implements a simple mock for testing
type MockSourceRepository struct {
	upsertedNames []string
	upsertedURLs  []string
	upsertErr     error

	syncTimeUpdates []time.Time
	updateErr       error
}

var _ database.SourceRepository = (*MockSourceRepository)(nil)

func (m *MockSourceRepository) GetSource(sourceName string) (*database.Source, error) {
	return nil, nil
}

func (m *MockSourceRepository) GetSourceCount() (int, error) {
	return len(m.upsertedNames), nil
}

func (m *MockSourceRepository) UpsertSource(sourceName, url string) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upsertedNames = append(m.upsertedNames, sourceName)
	m.upsertedURLs = append(m.upsertedURLs, url)
	return nil
}

func (m *MockSourceRepository) UpdateSyncTimes(sourceName string, nextSync time.Time) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.syncTimeUpdates = append(m.syncTimeUpdates, nextSync)
	return nil
}

// MockImporter implements a simple mock for testing
type MockImporter struct {
	runs   []string
	report *mirror.Report
	err    error
}

var _ ImporterInterface = (*MockImporter)(nil)

func (m *MockImporter) Run(ctx context.Context, source *config.Source) (*mirror.Report, error) {
	m.runs = append(m.runs, source.Name)
	if m.err != nil {
		return nil, m.err
	}
	return m.report, nil
}

func testSource() *config.Source {
	return &config.Source{
		Name: "blog",
		URL:  "https://blog.example.com/wp-json/wp/v2/posts",
		Settings: config.SourceSettings{
			Enabled:      true,
			SyncInterval: 1800,
		},
	}
}

func TestNewTask(t *testing.T) {
	task1 := NewTask(TaskTypeSyncSource, "blog")
	task2 := NewTask(TaskTypeSyncSource, "blog")

	if task1.GetID() == "" {
		t.Error("Expected non-empty task ID")
	}
	if task1.GetID() == task2.GetID() {
		t.Error("Expected unique task IDs")
	}
	if task1.GetType() != TaskTypeSyncSource {
		t.Errorf("Expected type 'sync_source', got '%s'", task1.GetType())
	}
	if task1.GetSourceName() != "blog" {
		t.Errorf("Expected source name 'blog', got '%s'", task1.GetSourceName())
	}
	if task1.GetDuration() != 0 {
		t.Errorf("Expected zero duration before start, got %v", task1.GetDuration())
	}
}

func TestTaskStart(t *testing.T) {
	task := NewTask(TaskTypeRegisterSource, "blog")
	task.Start()

	if task.StartedAt == nil {
		t.Fatal("Expected StartedAt to be set")
	}
	if task.GetDuration() < 0 {
		t.Errorf("Expected non-negative duration, got %v", task.GetDuration())
	}
}

func TestRegisterSourceTaskExecute(t *testing.T) {
	repo := &MockSourceRepository{}
	source := testSource()

	task := NewRegisterSourceTask(source.Name, source, repo)
	task.Start()

	if err := task.Execute(context.Background()); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(repo.upsertedNames) != 1 {
		t.Fatalf("Expected 1 upsert, got %d", len(repo.upsertedNames))
	}
	if repo.upsertedNames[0] != "blog" {
		t.Errorf("Expected upsert for 'blog', got '%s'", repo.upsertedNames[0])
	}
	if repo.upsertedURLs[0] != source.URL {
		t.Errorf("Expected upsert with source URL, got '%s'", repo.upsertedURLs[0])
	}
}

func TestRegisterSourceTaskExecuteError(t *testing.T) {
	repo := &MockSourceRepository{upsertErr: errors.New("database unavailable")}
	source := testSource()

	task := NewRegisterSourceTask(source.Name, source, repo)
	task.Start()

	if err := task.Execute(context.Background()); err == nil {
		t.Error("Expected error when upsert fails")
	}
}

func TestRegisterSourceTaskCancelledContext(t *testing.T) {
	repo := &MockSourceRepository{}
	source := testSource()

	task := NewRegisterSourceTask(source.Name, source, repo)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := task.Execute(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got: %v", err)
	}
	if len(repo.upsertedNames) != 0 {
		t.Error("Expected no upsert after cancellation")
	}
}

func TestSyncSourceTaskExecute(t *testing.T) {
	repo := &MockSourceRepository{}
	importer := &MockImporter{report: &mirror.Report{Total: 3, Created: 2, Updated: 1}}
	source := testSource()

	task := NewSyncSourceTask(source.Name, source, importer, repo)
	task.Start()

	before := time.Now().UTC()
	if err := task.Execute(context.Background()); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(importer.runs) != 1 {
		t.Fatalf("Expected 1 import run, got %d", len(importer.runs))
	}
	if importer.runs[0] != "blog" {
		t.Errorf("Expected run for 'blog', got '%s'", importer.runs[0])
	}

	if len(repo.syncTimeUpdates) != 1 {
		t.Fatalf("Expected 1 sync time update, got %d", len(repo.syncTimeUpdates))
	}

	expectedNext := before.Add(time.Duration(source.Settings.SyncInterval) * time.Second)
	if repo.syncTimeUpdates[0].Before(expectedNext) {
		t.Errorf("Expected next sync at or after %v, got %v", expectedNext, repo.syncTimeUpdates[0])
	}
}

func TestSyncSourceTaskDisabledSource(t *testing.T) {
	repo := &MockSourceRepository{}
	importer := &MockImporter{report: &mirror.Report{}}
	source := testSource()
	source.Settings.Enabled = false

	task := NewSyncSourceTask(source.Name, source, importer, repo)
	task.Start()

	if err := task.Execute(context.Background()); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(importer.runs) != 0 {
		t.Error("Expected no import run for disabled source")
	}
	if len(repo.syncTimeUpdates) != 0 {
		t.Error("Expected no sync time update for disabled source")
	}
}

func TestSyncSourceTaskImportFailure(t *testing.T) {
	repo := &MockSourceRepository{}
	importer := &MockImporter{err: errors.New("HTTP 500")}
	source := testSource()

	task := NewSyncSourceTask(source.Name, source, importer, repo)
	task.Start()

	if err := task.Execute(context.Background()); err == nil {
		t.Error("Expected error when import fails")
	}

	// A failed run keeps the old schedule; the next tick retries naturally.
	if len(repo.syncTimeUpdates) != 0 {
		t.Error("Expected no sync time update after failed import")
	}
}
