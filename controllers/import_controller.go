package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/puyolnw/sales-import-service/middleware"
	"github.com/puyolnw/sales-import-service/services"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ImportController handles the Elsa sales import endpoints.
type ImportController struct {
	importService SalesImportAPI
	redis         *redis.Client
	validator     *RequestValidator
	storageDir    string
	timeout       time.Duration
}

func NewImportController(svc SalesImportAPI, rdb *redis.Client, validator *RequestValidator, storageDir string) *ImportController {
	if storageDir == "" {
		storageDir = services.DefaultJobsDir
	}
	return &ImportController{
		importService: svc,
		redis:         rdb,
		validator:     validator,
		storageDir:    storageDir,
		timeout:       DefaultContextTimeout,
	}
}

// ValidateImport validates the uploaded CSV before import, without touching
// the catalog.
func (h *ImportController) ValidateImport(c *gin.Context) {
	file, err := h.getAndValidateFile(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fileHandle, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open file"})
		return
	}
	defer fileHandle.Close()

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	validation, err := h.importService.ValidateSalesImport(ctx, fileHandle)
	if err != nil {
		zap.L().Error("Sales import validation failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, validation)
}

// CreateImport runs an import from the uploaded CSV, synchronously by
// default or queued when async=true.
func (h *ImportController) CreateImport(c *gin.Context) {
	file, err := h.getAndValidateFile(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	form, err := h.validator.ParseImportForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	importedBy := h.resolveImportedBy(c, form)

	fileHandle, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open file"})
		return
	}
	defer fileHandle.Close()

	async := strings.ToLower(strings.TrimSpace(c.Query("async"))) == "true"
	if async {
		h.handleAsyncImport(c, fileHandle, file.Filename, importedBy)
		return
	}

	h.handleSyncImport(c, fileHandle, file.Filename, importedBy)
}

// GetImportJobStatus returns the async job status/result stored in Redis.
func (h *ImportController) GetImportJobStatus(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Job ID required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	val, err := h.redis.Get(ctx, services.ImportJobKey(id)).Result()
	if err == redis.Nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}
	if err != nil {
		zap.L().Error("Failed to get job status", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve job status"})
		return
	}

	var jobStatus map[string]interface{}
	if err := json.Unmarshal([]byte(val), &jobStatus); err != nil {
		zap.L().Error("Failed to parse job status", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse job result"})
		return
	}

	c.JSON(http.StatusOK, jobStatus)
}

// GetImport returns one import audit record by id.
func (h *ImportController) GetImport(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Import ID required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	record, err := h.importService.GetImport(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Import not found"})
		return
	}
	if err != nil {
		zap.L().Error("Failed to fetch import record", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch import record"})
		return
	}

	c.JSON(http.StatusOK, record)
}

// ListImports returns the import history, newest first.
func (h *ImportController) ListImports(c *gin.Context) {
	page, perPage, err := h.validator.ParsePagination(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	records, total, err := h.importService.ListImports(ctx, page, perPage)
	if err != nil {
		zap.L().Error("Failed to list imports", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list imports"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"imports": records,
		"total":   total,
		"page":    page,
		"perPage": perPage,
	})
}

// Private helper methods

func (h *ImportController) getAndValidateFile(c *gin.Context) (*multipart.FileHeader, error) {
	file, err := c.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("file is required")
	}

	if !h.validator.IsValidCSVFile(file) {
		return nil, fmt.Errorf("invalid file type. Only CSV files are allowed")
	}

	if err := h.validator.ValidateFileSize(file); err != nil {
		return nil, err
	}

	return file, nil
}

// resolveImportedBy prefers the explicit form field, then the authenticated
// user, then a generic fallback.
func (h *ImportController) resolveImportedBy(c *gin.Context, form ImportForm) string {
	if form.ImportedBy != "" {
		return form.ImportedBy
	}
	if user := c.GetString(middleware.UserKey); user != "" {
		return user
	}
	return "system"
}

func (h *ImportController) handleSyncImport(c *gin.Context, fileHandle multipart.File, fileName, importedBy string) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	outcome, err := h.importService.ProcessSalesImport(ctx, fileHandle, fileName, importedBy)
	if err != nil {
		zap.L().Error("Sales import processing failed", zap.Error(err))
		// Decode failures are the caller's fault; anything past the decode
		// gate (catalog load, persistence) is ours.
		if errors.Is(err, services.ErrEmptyFile) || errors.Is(err, services.ErrInvalidCSV) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process import"})
		return
	}

	c.JSON(http.StatusOK, outcome)
}

func (h *ImportController) handleAsyncImport(c *gin.Context, fileHandle multipart.File, fileName, importedBy string) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	jobID, err := h.enqueueJob(ctx, fileHandle, fileName, importedBy)
	if err != nil {
		zap.L().Error("Failed to enqueue async import", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to queue import job"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"job_id":  jobID,
		"message": "Import queued for processing",
	})
}

func (h *ImportController) enqueueJob(ctx context.Context, fileHandle multipart.File, fileName, importedBy string) (string, error) {
	data, err := io.ReadAll(fileHandle)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	if err := os.MkdirAll(h.storageDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create storage directory: %w", err)
	}

	jobID := uuid.New().String()
	filePath := filepath.Join(h.storageDir, fmt.Sprintf("%s.csv", jobID))

	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to persist file: %w", err)
	}

	if err := h.storeJobMetadata(ctx, jobID, filePath, fileName, importedBy); err != nil {
		os.Remove(filePath)
		return "", err
	}

	if err := h.redis.RPush(ctx, services.ImportQueueKey, jobID).Err(); err != nil {
		os.Remove(filePath)
		h.redis.Del(ctx, services.ImportJobKey(jobID))
		return "", fmt.Errorf("failed to enqueue job: %w", err)
	}

	zap.L().Info("Sales import job queued", zap.String("job_id", jobID))
	return jobID, nil
}

func (h *ImportController) storeJobMetadata(ctx context.Context, jobID, filePath, fileName, importedBy string) error {
	jobInfo := map[string]interface{}{
		"status":      "pending",
		"created_at":  time.Now().UTC().Format(time.RFC3339),
		"file_path":   filePath,
		"file_name":   fileName,
		"imported_by": importedBy,
	}

	jobData, err := json.Marshal(jobInfo)
	if err != nil {
		return fmt.Errorf("failed to marshal job info: %w", err)
	}

	if err := h.redis.Set(ctx, services.ImportJobKey(jobID), jobData, services.ImportJobTTL).Err(); err != nil {
		return fmt.Errorf("failed to store job metadata: %w", err)
	}

	return nil
}
