package api

import (
	"cms-mirror/app/config"
	"cms-mirror/app/database"
	"cms-mirror/app/tasks"
)

type Handler struct {
	sourceCache *config.SourceCache
	sourceRepo  database.SourceRepository
	postRepo    database.PostRepository
	importer    tasks.ImporterInterface
	scheduler   tasks.TaskSchedulerInterface
}
