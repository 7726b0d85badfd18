package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Redis keys for the async import queue.
const (
	ImportQueueKey  = "sales_import:queue"
	ImportJobKeyFmt = "sales_import:job:%s"
	ImportJobTTL    = 24 * time.Hour
	DefaultJobsDir  = "./data/sales_imports"
)

// ImportJobKey returns the Redis key holding a job's metadata and result.
func ImportJobKey(jobID string) string {
	return fmt.Sprintf(ImportJobKeyFmt, jobID)
}

// StartImportWorker starts a background worker that consumes job IDs from
// the Redis queue and runs the import pipeline over the persisted files.
// Jobs are processed one at a time, which also serializes queued imports
// against the catalog.
func StartImportWorker(ctx context.Context, rdb *redis.Client, importSvc *ImportService, storageDir string) {
	if rdb == nil || importSvc == nil {
		zap.L().Warn("import worker not started: missing dependencies")
		return
	}

	if storageDir == "" {
		storageDir = DefaultJobsDir
	}
	if err := os.MkdirAll(storageDir, 0o755); err != nil {
		zap.L().Error("failed to create import storage dir", zap.Error(err))
		return
	}

	go func() {
		zap.L().Info("import worker started",
			zap.String("queue", ImportQueueKey), zap.String("dir", storageDir))
		for {
			select {
			case <-ctx.Done():
				zap.L().Info("import worker stopping")
				return
			default:
			}

			// BLPop with no timeout blocks until an item is available.
			res, err := rdb.BLPop(ctx, 0*time.Second, ImportQueueKey).Result()
			if err != nil {
				if err == context.Canceled || err == context.DeadlineExceeded {
					return
				}
				zap.L().Error("redis BLPop failed", zap.Error(err))
				time.Sleep(500 * time.Millisecond)
				continue
			}
			if len(res) < 2 {
				continue
			}

			processImportJob(ctx, rdb, importSvc, res[1])
		}
	}()
}

func processImportJob(ctx context.Context, rdb *redis.Client, importSvc *ImportService, jobID string) {
	jobKey := ImportJobKey(jobID)

	val, err := rdb.Get(ctx, jobKey).Result()
	if err != nil {
		zap.L().Error("failed to read job metadata", zap.String("job", jobID), zap.Error(err))
		return
	}
	var meta map[string]interface{}
	if err := json.Unmarshal([]byte(val), &meta); err != nil {
		zap.L().Error("failed to parse job metadata", zap.String("job", jobID), zap.Error(err))
		return
	}

	filePath, _ := meta["file_path"].(string)
	fileName, _ := meta["file_name"].(string)
	importedBy, _ := meta["imported_by"].(string)

	meta["status"] = "processing"
	storeJobMeta(ctx, rdb, jobKey, meta)

	f, err := os.Open(filepath.Clean(filePath))
	if err != nil {
		zap.L().Error("failed to open job file",
			zap.String("job", jobID), zap.String("path", filePath), zap.Error(err))
		meta["status"] = "failed"
		meta["error"] = err.Error()
		storeJobMeta(ctx, rdb, jobKey, meta)
		return
	}

	outcome, err := importSvc.ProcessSalesImport(ctx, f, fileName, importedBy)
	f.Close()
	_ = os.Remove(filePath)

	if err != nil {
		zap.L().Error("import job failed", zap.String("job", jobID), zap.Error(err))
		meta["status"] = "failed"
		meta["error"] = err.Error()
		storeJobMeta(ctx, rdb, jobKey, meta)
		return
	}

	meta["status"] = "done"
	meta["result"] = outcome
	storeJobMeta(ctx, rdb, jobKey, meta)
}

func storeJobMeta(ctx context.Context, rdb *redis.Client, jobKey string, meta map[string]interface{}) error {
	b, err := json.Marshal(meta)
	if err != nil {
		zap.L().Error("failed to marshal job metadata", zap.Error(err))
		return err
	}
	if err := rdb.Set(ctx, jobKey, b, ImportJobTTL).Err(); err != nil {
		// A lost status write leaves pollers seeing a stale state.
		zap.L().Error("failed to store job metadata",
			zap.String("key", jobKey), zap.Error(err))
		return err
	}
	return nil
}
