package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/puyolnw/sales-import-service/models"
	"go.uber.org/zap"
)

// ProductStore is the catalog collaborator: it supplies the snapshot to
// match against and persists the proposed entries the pipeline produces.
type ProductStore interface {
	ListAll(ctx context.Context) ([]models.Product, error)
	SaveProposed(ctx context.Context, products []models.Product) error
}

// TransactionStore persists the ledger entries of a run.
type TransactionStore interface {
	InsertMany(ctx context.Context, txns []models.SalesTransaction) error
}

// ImportStore persists and serves import audit records.
type ImportStore interface {
	Insert(ctx context.Context, record *models.ImportRecord) error
	FindByID(ctx context.Context, id string) (*models.ImportRecord, error)
	List(ctx context.Context, page, perPage int) ([]*models.ImportRecord, int64, error)
}

// PipelineResult is everything one run produces: the audit record, the
// proposed catalog entries, the ledger transactions, and a human-readable
// summary for the UI.
type PipelineResult struct {
	Record       models.ImportRecord
	Products     []models.Product
	Transactions []models.SalesTransaction
	Message      string
}

// ImportOutcome is the caller-facing slice of a PipelineResult.
type ImportOutcome struct {
	Record  models.ImportRecord `json:"import"`
	Message string              `json:"message"`
}

// RunImportPipeline sequences validation, catalog matching and ledger
// derivation over one immutable batch of canonical records. Pure function:
// persistence is the caller's job.
//
// Validation is all-or-nothing: any error fails the whole run with zero
// successes. Past that gate, matching and derivation failures are row-level
// only, producing a partial result. The error list preserves original input
// row order, interleaving unmatched-product and derivation failures, since
// audit tooling keys off row numbers.
func RunImportPipeline(records []models.SalesRecord, catalog []models.Product, fileName, importedBy string, runTime time.Time) PipelineResult {
	record := models.ImportRecord{
		ID:           uuid.New().String(),
		ImportDate:   runTime.Format("2006-01-02"),
		ImportTime:   runTime.Format("15:04:05"),
		FileName:     fileName,
		TotalRecords: len(records),
		ImportedBy:   importedBy,
		RawInput:     records,
	}

	validation := ValidateSalesRecords(records, runTime)
	if !validation.IsValid {
		for _, issue := range validation.Errors {
			record.Errors = append(record.Errors, models.ImportError{
				Row:       issue.Row,
				ProductID: productIDForRow(records, issue.Row),
				Error:     fmt.Sprintf("%s: %s", issue.Field, issue.Message),
			})
		}
		record.FailedRecords = len(records)
		record.Status = models.ImportStatusFailed
		return PipelineResult{
			Record:  record,
			Message: importMessage(record),
		}
	}

	match := MatchCatalog(records, catalog)
	matchedByRow := make(map[int]MatchedSale, len(match.Matched))
	for _, m := range match.Matched {
		matchedByRow[m.Row] = m
	}
	unmatchedByRow := make(map[int]UnmatchedSale, len(match.Unmatched))
	for _, u := range match.Unmatched {
		unmatchedByRow[u.Row] = u
	}

	// Proposed entries chain within the run: a second sale of the same
	// product decrements the already-updated stock, not the snapshot.
	proposed := make(map[string]models.Product)
	var productOrder []string
	var transactions []models.SalesTransaction

	for i, rec := range records {
		row := i + 2

		if u, ok := unmatchedByRow[row]; ok {
			record.Errors = append(record.Errors, models.ImportError{
				Row:       row,
				ProductID: rec.ProductID,
				Error:     u.Reason,
			})
			record.FailedRecords++
			continue
		}

		m := matchedByRow[row]
		current := m.Product
		if p, ok := proposed[current.ID]; ok {
			current = p
		}

		txn, updated, err := BuildSaleEntry(rec, current, runTime)
		if err != nil {
			record.Errors = append(record.Errors, models.ImportError{
				Row:       row,
				ProductID: rec.ProductID,
				Error:     err.Error(),
			})
			record.FailedRecords++
			continue
		}

		if _, ok := proposed[updated.ID]; !ok {
			productOrder = append(productOrder, updated.ID)
		}
		proposed[updated.ID] = updated
		transactions = append(transactions, txn)
		record.SuccessRecords++
	}

	record.Status = deriveImportStatus(record.SuccessRecords, record.FailedRecords, record.TotalRecords)

	products := make([]models.Product, 0, len(productOrder))
	for _, id := range productOrder {
		products = append(products, proposed[id])
	}

	return PipelineResult{
		Record:       record,
		Products:     products,
		Transactions: transactions,
		Message:      importMessage(record),
	}
}

// deriveImportStatus is a pure function of the run counters: failed when
// nothing succeeded, success when nothing failed on a non-empty batch,
// partial otherwise.
func deriveImportStatus(success, failed, total int) string {
	switch {
	case success == 0:
		return models.ImportStatusFailed
	case failed == 0 && total > 0:
		return models.ImportStatusSuccess
	default:
		return models.ImportStatusPartial
	}
}

func importMessage(record models.ImportRecord) string {
	return fmt.Sprintf("Import %s: %d succeeded, %d failed",
		record.Status, record.SuccessRecords, record.FailedRecords)
}

func productIDForRow(records []models.SalesRecord, row int) string {
	idx := row - 2
	if idx < 0 || idx >= len(records) {
		return ""
	}
	return records[idx].ProductID
}

// ImportService wires the pure pipeline to its collaborators: the catalog
// and ledger stores, the audit history, and the optional raw-file archive.
type ImportService struct {
	products     ProductStore
	transactions TransactionStore
	imports      ImportStore
	archiver     *Archiver
}

func NewImportService(products ProductStore, transactions TransactionStore, imports ImportStore, archiver *Archiver) *ImportService {
	return &ImportService{
		products:     products,
		transactions: transactions,
		imports:      imports,
		archiver:     archiver,
	}
}

// ValidateSalesImport maps and validates an upload without touching the
// catalog, for the pre-import review screen.
func (s *ImportService) ValidateSalesImport(ctx context.Context, file io.Reader) (*models.ImportValidation, error) {
	headers, rows, err := ParseSalesCSV(file)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	records := MapSalesRows(headers, rows, now)
	result := ValidateSalesRecords(records, now)

	return &models.ImportValidation{
		TotalRecords: len(records),
		IsValid:      result.IsValid,
		Errors:       result.Errors,
		Warnings:     result.Warnings,
	}, nil
}

// ProcessSalesImport runs the full pipeline over an upload and persists the
// outcome. The caller always gets either a decode error or a terminal
// ImportRecord, never a half-emitted result.
func (s *ImportService) ProcessSalesImport(ctx context.Context, file io.Reader, fileName, importedBy string) (*ImportOutcome, error) {
	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	headers, rows, err := ParseSalesCSV(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}

	runTime := time.Now()
	records := MapSalesRows(headers, rows, runTime)

	catalog, err := s.products.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	result := RunImportPipeline(records, catalog, fileName, importedBy, runTime)

	if len(result.Transactions) > 0 {
		if err := s.transactions.InsertMany(ctx, result.Transactions); err != nil {
			return nil, fmt.Errorf("failed to persist transactions: %w", err)
		}
	}
	if len(result.Products) > 0 {
		if err := s.products.SaveProposed(ctx, result.Products); err != nil {
			return nil, fmt.Errorf("failed to persist catalog updates: %w", err)
		}
	}
	if err := s.imports.Insert(ctx, &result.Record); err != nil {
		return nil, fmt.Errorf("failed to persist import record: %w", err)
	}

	if s.archiver.Enabled() {
		if err := s.archiver.Archive(ctx, result.Record.ID, raw); err != nil {
			zap.L().Warn("failed to archive import file",
				zap.String("import_id", result.Record.ID), zap.Error(err))
		}
	}

	zap.L().Info("sales import completed",
		zap.String("import_id", result.Record.ID),
		zap.String("status", result.Record.Status),
		zap.Int("total", result.Record.TotalRecords),
		zap.Int("succeeded", result.Record.SuccessRecords),
		zap.Int("failed", result.Record.FailedRecords),
	)

	return &ImportOutcome{Record: result.Record, Message: result.Message}, nil
}

// GetImport returns one import audit record by id.
func (s *ImportService) GetImport(ctx context.Context, id string) (*models.ImportRecord, error) {
	return s.imports.FindByID(ctx, id)
}

// ListImports returns a page of import history, newest first.
func (s *ImportService) ListImports(ctx context.Context, page, perPage int) ([]*models.ImportRecord, int64, error) {
	return s.imports.List(ctx, page, perPage)
}
