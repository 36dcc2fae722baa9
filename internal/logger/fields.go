package logger

// Fields is an alias for map[string]interface{} for convenience.
type Fields map[string]interface{}

// Standard tracing fields, propagated through the call chain.
const (
	// FieldRequestID is the HTTP request ID (UUID).
	FieldRequestID = "request_id"

	// FieldSearchID identifies one search request across its stages.
	FieldSearchID = "search_id"

	// FieldComponent is the component/module name.
	FieldComponent = "component"

	// FieldTenant is the tenant (project slug) a request is scoped to.
	FieldTenant = "tenant"

	// FieldStrategy is the search strategy handling the request.
	FieldStrategy = "strategy"
)

// Standard metric fields, used for aggregation and alerting.
const (
	// FieldDurationMs is the execution duration in milliseconds.
	FieldDurationMs = "duration_ms"

	// FieldCount is a generic count field.
	FieldCount = "count"

	// FieldStatus is the operation status.
	FieldStatus = "status"
)
