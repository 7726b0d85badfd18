package services

import (
	"fmt"
	"strings"

	"github.com/puyolnw/sales-import-service/models"
)

// MatchedSale pairs a validated record with the catalog entry it resolved to.
type MatchedSale struct {
	Row     int
	Record  models.SalesRecord
	Product models.Product
}

// UnmatchedSale is a record no catalog entry could be found for. It is
// reported, never discarded silently.
type UnmatchedSale struct {
	Row    int
	Record models.SalesRecord
	Reason string
}

// MatchResult partitions every input record into exactly one bucket, so
// len(Matched)+len(Unmatched) always equals the input cardinality.
type MatchResult struct {
	Matched   []MatchedSale
	Unmatched []UnmatchedSale
}

// MatchCatalog resolves each record against the catalog snapshot using a
// deterministic two-stage lookup: exact product id first, then a
// case-insensitive, whitespace-trimmed name fallback. An id match always
// wins even when the names differ (the catalog may have renamed the product
// after the id was assigned), which keeps accidental name collisions from
// creating duplicates.
func MatchCatalog(records []models.SalesRecord, catalog []models.Product) MatchResult {
	byID := make(map[string]models.Product, len(catalog))
	byName := make(map[string]models.Product, len(catalog))
	for _, p := range catalog {
		byID[p.ID] = p
		key := normalizeName(p.Name)
		if _, exists := byName[key]; !exists {
			byName[key] = p
		}
	}

	var result MatchResult
	for i, rec := range records {
		row := i + 2

		if p, ok := byID[rec.ProductID]; ok {
			result.Matched = append(result.Matched, MatchedSale{Row: row, Record: rec, Product: p})
			continue
		}
		if p, ok := byName[normalizeName(rec.ProductName)]; ok {
			result.Matched = append(result.Matched, MatchedSale{Row: row, Record: rec, Product: p})
			continue
		}

		result.Unmatched = append(result.Unmatched, UnmatchedSale{
			Row:    row,
			Record: rec,
			Reason: fmt.Sprintf("product not found: %s (%s)", rec.ProductName, rec.ProductID),
		})
	}

	return result
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
