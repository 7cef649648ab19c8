package logging

import (
	"log/slog"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"gorm.io/gorm"
)

const cleanupInterval = 24 * time.Hour

// PruneSystemLogs deletes system_logs older than the retention window.
// user_logs and product_logs are append-only and never pruned here.
func PruneSystemLogs(db *gorm.DB, retention time.Duration) (int64, error) {
	result := db.Where("timestamp < ?", time.Now().Add(-retention)).Delete(&models.SystemLog{})
	return result.RowsAffected, result.Error
}

// StartCleanup prunes once immediately and then daily. The returned func
// stops the loop and waits for an in-flight prune to finish.
func StartCleanup(db *gorm.DB, retention time.Duration) (stop func()) {
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		prune(db, retention)
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				prune(db, retention)
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
		wg.Wait()
	}
}

func prune(db *gorm.DB, retention time.Duration) {
	deleted, err := PruneSystemLogs(db, retention)
	switch {
	case err != nil:
		slog.Warn("system log cleanup failed", "error", err)
	case deleted > 0:
		slog.Info("system log cleanup completed", "deleted", deleted, "retention", retention.String())
	}
}
