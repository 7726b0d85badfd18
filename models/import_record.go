package models

// Import run status values.
const (
	ImportStatusSuccess = "success"
	ImportStatusPartial = "partial"
	ImportStatusFailed  = "failed"
)

// ImportError is one row-level failure recorded in an ImportRecord: either a
// batch validation error, an unmatched product, or a derivation fault.
type ImportError struct {
	Row       int    `json:"row" bson:"row"`
	ProductID string `json:"product_id" bson:"product_id"`
	Error     string `json:"error" bson:"error"`
}

// ImportRecord is the audit artifact for one pipeline run. Created once per
// run and immutable thereafter; persisted for the import history screen.
// SuccessRecords + FailedRecords always equals TotalRecords.
type ImportRecord struct {
	ID             string        `json:"id" bson:"_id"`
	ImportDate     string        `json:"import_date" bson:"import_date"`
	ImportTime     string        `json:"import_time" bson:"import_time"`
	FileName       string        `json:"file_name" bson:"file_name"`
	TotalRecords   int           `json:"total_records" bson:"total_records"`
	SuccessRecords int           `json:"success_records" bson:"success_records"`
	FailedRecords  int           `json:"failed_records" bson:"failed_records"`
	Status         string        `json:"status" bson:"status"`
	ImportedBy     string        `json:"imported_by" bson:"imported_by"`
	RawInput       []SalesRecord `json:"raw_input" bson:"raw_input"`
	Errors         []ImportError `json:"errors,omitempty" bson:"errors,omitempty"`
}
