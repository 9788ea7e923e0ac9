package logging

// Standardized field names for structured logging.
// These constants ensure consistency across the application's log output,
// making logs easier to parse, filter, and analyze.
const (
	FieldTransactionID = "transaction_id"
	FieldSegment       = "segment"
	FieldCode          = "code"
	FieldRuleID        = "rule_id"
	FieldCategory      = "category"
	FieldStrategy      = "strategy"
	FieldReason        = "reason"
	FieldStatus        = "status"
	FieldError         = "error"
	FieldCount         = "count"
	FieldFile          = "file_path"
	FieldDocument      = "document"
)
