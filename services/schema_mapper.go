package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/puyolnw/sales-import-service/models"
)

var (
	ErrEmptyFile  = errors.New("file is empty")
	ErrInvalidCSV = errors.New("invalid CSV format")
)

// Elsa exports carry either English or Thai column headers depending on the
// terminal's locale. Matching is case-sensitive and exact, first alias wins;
// unrecognized headers are ignored.
var salesHeaderAliases = map[string][]string{
	"productId":           {"Product ID", "รหัสสินค้า"},
	"productName":         {"Product Name", "ชื่อสินค้า"},
	"quantity":            {"Quantity", "จำนวน"},
	"date":                {"Date", "วันที่"},
	"externalReferenceId": {"Reference ID", "เลขที่อ้างอิง"},
	"agentName":           {"Service Advisor", "ที่ปรึกษาบริการ"},
}

// ParseSalesCSV decodes an Elsa export into a header row plus data rows.
// A file that cannot be decoded as tabular data at all is the only fatal
// parse error; everything below that is tolerated and left to validation.
func ParseSalesCSV(r io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, nil, ErrEmptyFile
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidCSV, err)
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidCSV, err)
	}

	return headers, rows, nil
}

// MapSalesRows translates raw CSV rows into canonical sales records, one per
// input row, in input order. Missing fields default instead of failing:
// empty strings for text, zero for quantity, today's date, and a synthesized
// reference id, so every record stays addressable even from malformed input.
// Bad data surfaces later through validation, not here.
func MapSalesRows(headers []string, rows [][]string, now time.Time) []models.SalesRecord {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		if _, seen := index[h]; !seen {
			index[h] = i
		}
	}

	records := make([]models.SalesRecord, 0, len(rows))
	for i, row := range rows {
		rec := models.SalesRecord{
			ProductID:           resolveField(index, row, salesHeaderAliases["productId"]),
			ProductName:         resolveField(index, row, salesHeaderAliases["productName"]),
			Quantity:            parseQuantity(resolveField(index, row, salesHeaderAliases["quantity"])),
			Date:                resolveField(index, row, salesHeaderAliases["date"]),
			ExternalReferenceID: resolveField(index, row, salesHeaderAliases["externalReferenceId"]),
			AgentName:           resolveField(index, row, salesHeaderAliases["agentName"]),
		}

		if rec.Date == "" {
			rec.Date = now.Format("2006-01-02")
		}
		if rec.ExternalReferenceID == "" {
			rec.ExternalReferenceID = fmt.Sprintf("ELSA-%d-%d", now.UnixMilli(), i)
		}

		records = append(records, rec)
	}

	return records
}

// resolveField returns the cell for the first alias present in the header
// index, or an empty string when none of the aliases appear.
func resolveField(index map[string]int, row []string, aliases []string) string {
	for _, alias := range aliases {
		col, ok := index[alias]
		if !ok {
			continue
		}
		if col < len(row) {
			return strings.TrimSpace(row[col])
		}
		return ""
	}
	return ""
}

// parseQuantity keeps the mapper total: a missing cell maps to zero and an
// unparseable one to NaN, both of which validation rejects as non-positive.
func parseQuantity(raw string) float64 {
	if raw == "" {
		return 0
	}
	q, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return math.NaN()
	}
	return q
}
