package controllers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Validation constants
const (
	MaxPageSize   = 100
	MaxPageNumber = 1000000
	MaxUploadSize = 50 * 1024 * 1024 // 50MB
)

var allowedCSVExtensions = map[string]bool{
	".csv": true,
	".txt": true,
}

// ImportForm carries the caller-supplied metadata of an import request.
type ImportForm struct {
	ImportedBy string `form:"imported_by" validate:"omitempty,max=120"`
}

// RequestValidator handles all input validation for the import endpoints.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{
		validate: validator.New(),
	}
}

// ParsePagination validates and parses pagination parameters
func (rv *RequestValidator) ParsePagination(c *gin.Context) (int, int, error) {
	pageStr := c.DefaultQuery("page", "1")
	perPageStr := c.DefaultQuery("perPage", "10")

	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		return 0, 0, errors.New("invalid page number")
	}
	if page > MaxPageNumber {
		page = MaxPageNumber
	}

	perPage, err := strconv.Atoi(perPageStr)
	if err != nil || perPage < 1 {
		return 0, 0, errors.New("invalid page size")
	}
	if perPage > MaxPageSize {
		perPage = MaxPageSize
	}

	return page, perPage, nil
}

// ParseImportForm binds and validates the import request metadata.
func (rv *RequestValidator) ParseImportForm(c *gin.Context) (ImportForm, error) {
	var form ImportForm
	if err := c.ShouldBind(&form); err != nil {
		return ImportForm{}, fmt.Errorf("invalid form data: %w", err)
	}
	if err := rv.validate.Struct(&form); err != nil {
		return ImportForm{}, fmt.Errorf("validation failed: %w", err)
	}
	form.ImportedBy = strings.TrimSpace(form.ImportedBy)
	return form, nil
}

// IsValidCSVFile checks if the file is a valid CSV
func (rv *RequestValidator) IsValidCSVFile(file *multipart.FileHeader) bool {
	contentType := file.Header.Get("Content-Type")
	if contentType == "text/csv" || contentType == "application/csv" || contentType == "text/plain" {
		return true
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	return allowedCSVExtensions[ext]
}

// ValidateFileSize checks if file size is within limits
func (rv *RequestValidator) ValidateFileSize(file *multipart.FileHeader) error {
	if file.Size > MaxUploadSize {
		return fmt.Errorf("file too large (max %dMB)", MaxUploadSize/(1024*1024))
	}
	return nil
}
