package models

// ValidationIssue severity levels. Errors block the whole import run,
// warnings are informational only.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// SalesRecord is the canonical, field-normalized representation of one row
// of the Elsa point-of-sale export after header-alias resolution. Immutable
// once produced by the schema mapper.
type SalesRecord struct {
	ProductID           string  `json:"product_id" bson:"product_id"`
	ProductName         string  `json:"product_name" bson:"product_name"`
	Quantity            float64 `json:"quantity" bson:"quantity"`
	Date                string  `json:"date" bson:"date"`
	ExternalReferenceID string  `json:"external_reference_id" bson:"external_reference_id"`
	AgentName           string  `json:"agent_name" bson:"agent_name"`
}

// ValidationIssue is one per-field finding for a record. Row numbers are
// 1-based file positions, so the first data row after the header is row 2.
type ValidationIssue struct {
	Row      int    `json:"row"`
	Field    string `json:"field"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// ImportValidation is the response of the pre-import validation endpoint.
type ImportValidation struct {
	TotalRecords int               `json:"total_records"`
	IsValid      bool              `json:"is_valid"`
	Errors       []ValidationIssue `json:"errors"`
	Warnings     []ValidationIssue `json:"warnings"`
}
