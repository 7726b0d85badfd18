package models

import "time"

// Product stock status values. Derived from current stock against the
// minimum threshold, never set directly by callers.
const (
	StatusInStock    = "in_stock"
	StatusLowStock   = "low_stock"
	StatusOutOfStock = "out_of_stock"
)

// ChannelStats holds per-sales-channel aggregates for a product.
type ChannelStats struct {
	DailySales          float64   `json:"daily_sales" bson:"daily_sales"`
	LastSyncDate        time.Time `json:"last_sync_date" bson:"last_sync_date"`
	ExternalReferenceID string    `json:"external_reference_id" bson:"external_reference_id"`
}

// Product is a catalog entry owned by the inventory subsystem. The import
// pipeline reads it for matching and produces a proposed new version; it is
// persisted by the product repository, never mutated in place.
type Product struct {
	ID            string                  `json:"id" bson:"_id"`
	Name          string                  `json:"name" bson:"name"`
	CurrentStock  float64                 `json:"current_stock" bson:"current_stock"`
	MinThreshold  float64                 `json:"min_threshold" bson:"min_threshold"`
	PricePerUnit  float64                 `json:"price_per_unit" bson:"price_per_unit"`
	SalesChannels map[string]ChannelStats `json:"sales_channels" bson:"sales_channels"`
	SalesHistory  []string                `json:"sales_history" bson:"sales_history"`
	Status        string                  `json:"status" bson:"status"`
	LastUpdated   time.Time               `json:"last_updated" bson:"last_updated"`
}
