package services

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/puyolnw/sales-import-service/models"
)

// BulkQuantityWarningLevel flags statistically unusual bulk entries for
// human review. Quantities above it validate, with a warning.
const BulkQuantityWarningLevel = 1000

// Date layouts accepted in Elsa exports, tried in order.
var saleDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02/01/2006",
}

// ValidationResult is the outcome of validating one batch of records.
// IsValid is true iff the error list is empty; warnings never block.
type ValidationResult struct {
	IsValid  bool
	Errors   []models.ValidationIssue
	Warnings []models.ValidationIssue
}

// ValidateSalesRecords applies the per-field rules to every record of the
// batch. Pure function: no side effects, records are not mutated. Row
// numbers account for the header row, so record i reports as row i+2.
//
// Validation is all-or-nothing at the batch level: a single error fails the
// whole run so a partially validated batch can never reach the ledger.
func ValidateSalesRecords(records []models.SalesRecord, now time.Time) ValidationResult {
	result := ValidationResult{}

	for i, rec := range records {
		row := i + 2

		if strings.TrimSpace(rec.ProductID) == "" {
			result.Errors = append(result.Errors, models.ValidationIssue{
				Row:      row,
				Field:    "product_id",
				Message:  "product id is required",
				Severity: models.SeverityError,
			})
		}

		if strings.TrimSpace(rec.ProductName) == "" {
			result.Errors = append(result.Errors, models.ValidationIssue{
				Row:      row,
				Field:    "product_name",
				Message:  "product name is required",
				Severity: models.SeverityError,
			})
		}

		if math.IsNaN(rec.Quantity) || math.IsInf(rec.Quantity, 0) || rec.Quantity <= 0 {
			result.Errors = append(result.Errors, models.ValidationIssue{
				Row:      row,
				Field:    "quantity",
				Message:  "quantity must be a positive number",
				Severity: models.SeverityError,
			})
		} else if rec.Quantity > BulkQuantityWarningLevel {
			result.Warnings = append(result.Warnings, models.ValidationIssue{
				Row:      row,
				Field:    "quantity",
				Message:  fmt.Sprintf("unusually large quantity (%g), please verify", rec.Quantity),
				Severity: models.SeverityWarning,
			})
		}

		saleDate, err := ParseSaleDate(rec.Date, now.Location())
		if err != nil {
			result.Errors = append(result.Errors, models.ValidationIssue{
				Row:      row,
				Field:    "date",
				Message:  fmt.Sprintf("unparseable date %q", rec.Date),
				Severity: models.SeverityError,
			})
		} else if saleDate.After(now) {
			result.Errors = append(result.Errors, models.ValidationIssue{
				Row:      row,
				Field:    "date",
				Message:  "sale date is in the future",
				Severity: models.SeverityError,
			})
		}
	}

	result.IsValid = len(result.Errors) == 0
	return result
}

// ParseSaleDate parses a date cell against the accepted Elsa layouts. Cells
// without zone information parse in loc, so a sale dated today in the
// terminal's zone never reads as future just because the zone is ahead of
// UTC.
func ParseSaleDate(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range saleDateLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %q", raw)
}
