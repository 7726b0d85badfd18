package services

import (
	"math"
	"testing"
	"time"

	"github.com/puyolnw/sales-import-service/models"
)

var validatorNow = time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)

func validRecord() models.SalesRecord {
	return models.SalesRecord{
		ProductID:           "P001",
		ProductName:         "Engine Oil 5W-30",
		Quantity:            2,
		Date:                "2026-08-01",
		ExternalReferenceID: "EL-778",
		AgentName:           "Anan",
	}
}

func TestValidateSalesRecordsValidBatch(t *testing.T) {
	result := ValidateSalesRecords([]models.SalesRecord{validRecord()}, validatorNow)
	if !result.IsValid {
		t.Fatalf("expected valid batch, got errors: %+v", result.Errors)
	}
	if len(result.Errors) != 0 || len(result.Warnings) != 0 {
		t.Fatalf("expected no issues, got %+v / %+v", result.Errors, result.Warnings)
	}
}

func TestValidateSalesRecordsFieldRules(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*models.SalesRecord)
		field  string
	}{
		{"empty product id", func(r *models.SalesRecord) { r.ProductID = "   " }, "product_id"},
		{"empty product name", func(r *models.SalesRecord) { r.ProductName = "" }, "product_name"},
		{"zero quantity", func(r *models.SalesRecord) { r.Quantity = 0 }, "quantity"},
		{"negative quantity", func(r *models.SalesRecord) { r.Quantity = -5 }, "quantity"},
		{"nan quantity", func(r *models.SalesRecord) { r.Quantity = math.NaN() }, "quantity"},
		{"inf quantity", func(r *models.SalesRecord) { r.Quantity = math.Inf(1) }, "quantity"},
		{"unparseable date", func(r *models.SalesRecord) { r.Date = "yesterday" }, "date"},
		{"future date", func(r *models.SalesRecord) { r.Date = "2027-01-01" }, "date"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := validRecord()
			tc.mutate(&rec)

			result := ValidateSalesRecords([]models.SalesRecord{rec}, validatorNow)
			if result.IsValid {
				t.Fatal("expected batch to be invalid")
			}
			if len(result.Errors) != 1 {
				t.Fatalf("expected 1 error, got %+v", result.Errors)
			}
			issue := result.Errors[0]
			if issue.Field != tc.field {
				t.Fatalf("expected field %q, got %q", tc.field, issue.Field)
			}
			if issue.Severity != models.SeverityError {
				t.Fatalf("expected error severity, got %q", issue.Severity)
			}
			if issue.Row != 2 {
				t.Fatalf("expected row 2 (first data row), got %d", issue.Row)
			}
		})
	}
}

func TestValidateSalesRecordsBulkQuantityWarning(t *testing.T) {
	rec := validRecord()
	rec.Quantity = 1001

	result := ValidateSalesRecords([]models.SalesRecord{rec}, validatorNow)
	if !result.IsValid {
		t.Fatalf("a bulk quantity must not block the batch: %+v", result.Errors)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %+v", result.Warnings)
	}
	if result.Warnings[0].Severity != models.SeverityWarning {
		t.Fatalf("expected warning severity, got %q", result.Warnings[0].Severity)
	}
}

func TestValidateSalesRecordsRowNumbering(t *testing.T) {
	good := validRecord()
	bad := validRecord()
	bad.Quantity = -1

	result := ValidateSalesRecords([]models.SalesRecord{good, good, bad}, validatorNow)
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %+v", result.Errors)
	}
	if result.Errors[0].Row != 4 {
		t.Fatalf("third record should report as row 4, got %d", result.Errors[0].Row)
	}
}

func TestValidateSalesRecordsDoesNotMutateInput(t *testing.T) {
	rec := validRecord()
	records := []models.SalesRecord{rec}
	ValidateSalesRecords(records, validatorNow)
	if records[0] != rec {
		t.Fatal("validator must not mutate its input")
	}
}

func TestParseSaleDateLayouts(t *testing.T) {
	for _, raw := range []string{"2026-08-01", "2026-08-01T10:00:00Z", "2026-08-01 10:00:00", "01/08/2026"} {
		if _, err := ParseSaleDate(raw, time.UTC); err != nil {
			t.Fatalf("expected %q to parse, got %v", raw, err)
		}
	}
	if _, err := ParseSaleDate("31-31-31", time.UTC); err == nil {
		t.Fatal("expected parse failure")
	}
}

func TestParseSaleDateUsesLocation(t *testing.T) {
	bangkok := time.FixedZone("ICT", 7*60*60)
	parsed, err := ParseSaleDate("2026-08-27", bangkok)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed.Location() != bangkok {
		t.Fatalf("expected date-only cell to parse in the caller's zone, got %v", parsed.Location())
	}
}

// A sale dated today in a zone ahead of UTC is not future-dated, even in the
// small hours when midnight UTC is still tomorrow locally.
func TestValidateSalesRecordsTodayInZoneAheadOfUTC(t *testing.T) {
	bangkok := time.FixedZone("ICT", 7*60*60)
	now := time.Date(2026, 8, 27, 1, 0, 0, 0, bangkok)

	rec := validRecord()
	rec.Date = "2026-08-27"

	result := ValidateSalesRecords([]models.SalesRecord{rec}, now)
	if !result.IsValid {
		t.Fatalf("a sale dated today must validate: %+v", result.Errors)
	}
}

// The mapper's own default date must always survive validation against the
// same clock it was derived from.
func TestValidateSalesRecordsAcceptsMapperDefaultDate(t *testing.T) {
	bangkok := time.FixedZone("ICT", 7*60*60)
	now := time.Date(2026, 8, 27, 1, 0, 0, 0, bangkok)

	headers := []string{"Product ID", "Product Name", "Quantity"}
	rows := [][]string{{"P001", "Engine Oil 5W-30", "2"}}
	records := MapSalesRows(headers, rows, now)

	if records[0].Date != "2026-08-27" {
		t.Fatalf("expected default date 2026-08-27, got %q", records[0].Date)
	}

	result := ValidateSalesRecords(records, now)
	if !result.IsValid {
		t.Fatalf("defaulted date must validate: %+v", result.Errors)
	}
}
