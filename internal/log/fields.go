package log

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldRequestID     = "request_id"
	FieldClientIP      = "client_ip"
	FieldMethod        = "method"
	FieldPath          = "path"
	FieldStatusCode    = "status_code"
	FieldDuration      = "duration_ms"
	FieldError         = "error"
	FieldOperation     = "operation"
	FieldTransactionID = "transaction_id"
	FieldMemberID      = "member_id"
	FieldCategory      = "category"
	FieldAmount        = "amount"
	FieldIdentity      = "identity"
	FieldBackend       = "backend"
	FieldEntity        = "entity"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentLedger  = "ledger"
	ComponentStore   = "store"
	ComponentSession = "session"
	ComponentEvents  = "events"
	ComponentWorker  = "worker"
	ComponentSheets  = "sheets"
	ComponentBackend = "backend"
	ComponentReport  = "report"
)

// Operations defines standard operation names
const (
	OpCreate    = "create"
	OpDelete    = "delete"
	OpList      = "list"
	OpSnapshot  = "snapshot"
	OpPublish   = "publish"
	OpMirror    = "mirror"
	OpSignIn    = "sign_in"
	OpSignOut   = "sign_out"
	OpRender    = "render"
	OpStartup   = "startup"
	OpShutdown  = "shutdown"
)
