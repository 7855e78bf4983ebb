package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"

	FieldEntryID   = "entry_id"
	FieldDate      = "date"
	FieldAmount    = "amount"
	FieldCategory  = "category"
	FieldEntryType = "entry_type"
	FieldTimeframe = "timeframe"
	FieldMode      = "mode"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentEntry     = "entry"
	ComponentAnalytics = "analytics"
	ComponentStore     = "store"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
	ComponentCache     = "cache"
)

// Operations defines standard operation names
const (
	OpCreate     = "create"
	OpDelete     = "delete"
	OpList       = "list"
	OpSummary    = "summary"
	OpTrend      = "trend"
	OpCategories = "categories"
	OpDigest     = "digest"
	OpStartup    = "startup"
	OpShutdown   = "shutdown"
)
