package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cms-mirror/app/config"
	"cms-mirror/app/database"
	"cms-mirror/app/mirror"
	"cms-mirror/app/tasks"
)

func NewHandler(sourceCache *config.SourceCache, sourceRepo database.SourceRepository,
	postRepo database.PostRepository, importer tasks.ImporterInterface,
	scheduler tasks.TaskSchedulerInterface) *Handler {
	return &Handler{
		sourceCache: sourceCache,
		sourceRepo:  sourceRepo,
		postRepo:    postRepo,
		importer:    importer,
		scheduler:   scheduler,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if sourceCount, err := h.sourceRepo.GetSourceCount(); err == nil {
		health["sources"] = sourceCount
	}

	if postCount, err := h.postRepo.GetPostCount(); err == nil {
		health["posts"] = postCount
	}

	health["loaded_configurations"] = h.sourceCache.GetSourceCount()

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	sources := h.sourceCache.GetSources()

	stats := make([]map[string]interface{}, 0, len(sources))
	for _, source := range sources {
		entry := map[string]interface{}{
			"source":  source.Name,
			"enabled": source.Settings.Enabled,
		}

		if total, published, drafts, err := h.postRepo.GetPostStats(source.Name); err == nil {
			entry["posts"] = map[string]interface{}{
				"total":     total,
				"published": published,
				"drafts":    drafts,
			}
		}

		if dbSource, err := h.sourceRepo.GetSource(source.Name); err == nil && dbSource != nil {
			entry["last_synced_at"] = dbSource.LastSyncedAt
			entry["next_sync_at"] = dbSource.NextSyncAt
		}

		stats = append(stats, entry)
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"sources": stats,
		"total":   len(stats),
	})
}

// RunSync triggers a synchronous import of one source and reports the
// outcome. Only configuration and listing-fetch failures surface as run-level
// errors; per-item failures are absorbed into the report.
func (h *Handler) RunSync(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing source name parameter"})
		return
	}

	source, err := h.sourceCache.GetSource(name)
	if err != nil {
		slog.Error("Source configuration not found", "source", name, "error", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Source configuration not found"})
		return
	}

	report, err := h.importer.Run(c.Request.Context(), source)
	if err != nil {
		slog.Error("Import run failed", "source", name, "error", err)

		status := http.StatusInternalServerError
		if errors.Is(err, mirror.ErrNoEndpoint) {
			status = http.StatusUnprocessableEntity
		}

		c.JSON(status, gin.H{
			"success": false,
			"source":  name,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"source":  name,
		"report":  report,
	})
}

func (h *Handler) APIListSources(c *gin.Context) {
	sources := h.sourceCache.GetSources()

	list := make([]map[string]interface{}, 0, len(sources))

	for _, source := range sources {
		info := map[string]interface{}{
			"name":          source.Name,
			"url":           source.URL,
			"enabled":       source.Settings.Enabled,
			"sync_interval": (time.Duration(source.Settings.SyncInterval) * time.Second).String(),
			"skip_media":    source.Settings.SkipMedia,
		}

		if dbSource, err := h.sourceRepo.GetSource(source.Name); err == nil && dbSource != nil {
			info["last_synced_at"] = dbSource.LastSyncedAt
			info["next_sync_at"] = dbSource.NextSyncAt
		}

		if total, _, _, err := h.postRepo.GetPostStats(source.Name); err == nil {
			info["post_count"] = total
		}

		list = append(list, info)
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"sources": list,
		"total":   len(list),
	})
}

func (h *Handler) APIGetSourceDetails(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing source name parameter"})
		return
	}

	source, err := h.sourceCache.GetSource(name)
	if err != nil {
		slog.Error("Source configuration not found", "source", name, "error", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Source configuration not found"})
		return
	}

	dbSource, err := h.sourceRepo.GetSource(name)
	if err != nil {
		slog.Error("Database error", "operation", "get_source", "source", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if dbSource == nil {
		slog.Error("Source not found in database", "source", name)
		c.JSON(http.StatusNotFound, gin.H{"error": "Source not found in database"})
		return
	}

	details := map[string]interface{}{
		"name":          name,
		"url":           source.URL,
		"enabled":       source.Settings.Enabled,
		"sync_interval": (time.Duration(source.Settings.SyncInterval) * time.Second).String(),
		"timeout":       (time.Duration(source.Settings.Timeout) * time.Second).String(),
		"skip_media":    source.Settings.SkipMedia,
		"max_pages":     source.Settings.MaxPages,
	}

	details["database"] = map[string]interface{}{
		"id":             dbSource.ID,
		"name":           dbSource.Name,
		"last_synced_at": dbSource.LastSyncedAt,
		"next_sync_at":   dbSource.NextSyncAt,
		"created_at":     dbSource.CreatedAt,
		"updated_at":     dbSource.UpdatedAt,
	}

	if total, published, drafts, err := h.postRepo.GetPostStats(name); err == nil {
		details["posts"] = map[string]interface{}{
			"total":     total,
			"published": published,
			"drafts":    drafts,
		}
	}

	c.JSON(http.StatusOK, details)
}

func (h *Handler) APIReloadSource(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing source name parameter"})
		return
	}

	if _, err := h.sourceCache.GetSource(name); err != nil {
		slog.Error("Source configuration not found", "source", name, "error", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Source configuration not found"})
		return
	}

	source, err := h.sourceCache.LoadSource(name)
	if err != nil {
		slog.Error("Error reloading configuration", "source", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to reload configuration",
			"details": err.Error(),
		})
		return
	}

	registerTask := tasks.NewRegisterSourceTask(name, source, h.sourceRepo)
	if err := h.scheduler.EnqueueTask(registerTask); err != nil {
		slog.Error("Error enqueueing register task", "source", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to enqueue register task",
			"details": err.Error(),
		})
		return
	}

	syncTask := tasks.NewSyncSourceTask(name, source, h.importer, h.sourceRepo)
	if err := h.scheduler.EnqueueTask(syncTask); err != nil {
		slog.Error("Error enqueueing sync task", "source", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to enqueue sync task",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Configuration reloaded and tasks enqueued successfully",
		"source": gin.H{
			"name": name,
			"url":  source.URL,
		},
		"tasks": []gin.H{
			{"id": registerTask.ID, "type": registerTask.Type},
			{"id": syncTask.ID, "type": syncTask.Type},
		},
	})
}
