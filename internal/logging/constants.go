package logging

// Standardized field names for structured logging.
// These constants keep the pipeline's log output consistent so events like
// page start/finish and retry attempts can be filtered reliably.
const (
	FieldProvider    = "provider"
	FieldModel       = "model"
	FieldRequestID   = "request_id"
	FieldPage        = "page"
	FieldTotalPages  = "total_pages"
	FieldAttempt     = "attempt"
	FieldCategory    = "category"
	FieldReason      = "reason"
	FieldStatus      = "status"
	FieldError       = "error"
	FieldDuration    = "duration_ms"
	FieldCount       = "count"
	FieldDetections  = "detections"
	FieldInputFile   = "input_file"
	FieldOutputFile  = "output_file"
)
