package models

// SalesTransaction is an immutable ledger entry, created once per matched
// sales record. TransactionNo is reproducible from the source data so a
// re-import of the same export yields the same numbers.
type SalesTransaction struct {
	ID                  string  `json:"id" bson:"_id"`
	TransactionNo       string  `json:"transaction_no" bson:"transaction_no"`
	ProductID           string  `json:"product_id" bson:"product_id"`
	ProductName         string  `json:"product_name" bson:"product_name"`
	Quantity            float64 `json:"quantity" bson:"quantity"`
	PricePerUnit        float64 `json:"price_per_unit" bson:"price_per_unit"`
	TotalAmount         float64 `json:"total_amount" bson:"total_amount"`
	Channel             string  `json:"channel" bson:"channel"`
	Date                string  `json:"date" bson:"date"`
	Time                string  `json:"time" bson:"time"`
	SoldBy              string  `json:"sold_by" bson:"sold_by"`
	ExternalReferenceID string  `json:"external_reference_id" bson:"external_reference_id"`
}
