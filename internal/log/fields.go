package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldClientIP  = "client_ip"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldDuration  = "duration_ms"
	FieldError     = "error"

	FieldCompanyID    = "company_id"
	FieldEntryID      = "entry_id"
	FieldTemplateID   = "template_id"
	FieldYear         = "year"
	FieldMonth        = "month"
	FieldPeriod       = "period"
	FieldCreatedCount = "created"
)

// Components defines standard component names
const (
	ComponentApp        = "app"
	ComponentHTTP       = "http"
	ComponentStorage    = "storage"
	ComponentRecurrence = "recurrence"
	ComponentStatement  = "statement"
	ComponentDashboard  = "dashboard"
	ComponentReport     = "report"
	ComponentWorker     = "worker"
)
