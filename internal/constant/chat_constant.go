package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"

	ConfidenceUnknown = "unknown"
)

// Generic user-facing failure strings, used when the backend returns an
// error without a message of its own.
const (
	ErrGenericChat          = "Sorry, something went wrong while answering. Please try again."
	ErrGenericUpload        = "Upload failed"
	ErrGenericDeleteDoc     = "Failed to delete document"
	ErrGenericDeleteSession = "Failed to delete session"
	ErrGenericRenameSession = "Failed to rename session"
	ErrGenericCreateSession = "Failed to create session"
	ErrGenericLoadSession   = "Failed to load session"
	ErrGenericListSessions  = "Failed to list sessions"
	ErrGenericListDocs      = "Failed to fetch documents"
	ErrGenericExport        = "Failed to export chat"
	ErrGenericModels        = "Failed to fetch models"
	ErrGenericSetModel      = "Failed to set model"
	ErrGenericClearData     = "Failed to clear data"
	ErrGenericHealth        = "Backend is unreachable"
)
