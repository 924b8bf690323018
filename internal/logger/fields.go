package logger

// Standard field names for structured logging.
const (
	FieldNotation = "notation"
	FieldTarget   = "target"
	FieldFile     = "file"
	FieldCount    = "count"
	FieldCode     = "code"
	FieldPath     = "path"
	FieldStage    = "stage"
	FieldError    = "error"
)
