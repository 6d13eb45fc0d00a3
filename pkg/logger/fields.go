package logger

// Shared log field names. Keeping them constant makes log queries stable
// across the project.
const (
	// FieldTraceID request trace id
	FieldTraceID = "traceId"

	// FieldUID user id
	FieldUID = "uid"

	// FieldAction action name
	FieldAction = "action"

	// FieldNotebook notebook id
	FieldNotebook = "notebook"

	// FieldNode node id
	FieldNode = "node"

	// FieldModule module kind
	FieldModule = "module"

	// FieldDuration elapsed time
	FieldDuration = "duration"

	// FieldSessionID realtime session id
	FieldSessionID = "sessionId"

	// FieldMethod method name
	FieldMethod = "method"

	// FieldError error message
	FieldError = "error"

	// FieldSize payload size
	FieldSize = "size"

	// FieldBucket storage bucket name
	FieldBucket = "bucket"

	// FieldFileKey storage object key
	FieldFileKey = "fileKey"
)
