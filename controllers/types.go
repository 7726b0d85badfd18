package controllers

import (
	"context"
	"io"
	"time"

	"github.com/puyolnw/sales-import-service/models"
	"github.com/puyolnw/sales-import-service/services"
)

// Default configuration values
const (
	DefaultContextTimeout = 30 * time.Second
)

// SalesImportAPI defines the interface for sales import operations.
type SalesImportAPI interface {
	ValidateSalesImport(ctx context.Context, file io.Reader) (*models.ImportValidation, error)
	ProcessSalesImport(ctx context.Context, file io.Reader, fileName, importedBy string) (*services.ImportOutcome, error)
	GetImport(ctx context.Context, id string) (*models.ImportRecord, error)
	ListImports(ctx context.Context, page, perPage int) ([]*models.ImportRecord, int64, error)
}
