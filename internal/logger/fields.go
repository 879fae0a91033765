package logger

// Fields is an alias for map[string]interface{} for convenience.
type Fields map[string]interface{}

// ============================================
// Standard Tracing Fields (Context level)
// These fields are propagated through the call chain
// ============================================

const (
	// FieldRequestID is the HTTP request ID (UUID)
	FieldRequestID = "request_id"

	// FieldImportID is the import run ID
	FieldImportID = "import_id"

	// FieldCongress is the congress/session number being processed
	FieldCongress = "congress"

	// FieldBioguideID is the legislator identifier
	FieldBioguideID = "bioguide_id"

	// FieldComponent is the component/module name
	FieldComponent = "component"
)

// ============================================
// Standard Metric Fields (Entry level)
// These fields are used for aggregation and alerting
// ============================================

const (
	// FieldDurationMs is the execution duration in milliseconds
	FieldDurationMs = "duration_ms"

	// FieldCount is a generic count field
	FieldCount = "count"

	// FieldStatus is an HTTP or run status value
	FieldStatus = "status"

	// FieldURL is the upstream request URL
	FieldURL = "url"

	// FieldAttempt is the fetch attempt number
	FieldAttempt = "attempt"

	// FieldOffset is the pagination offset
	FieldOffset = "offset"
)
