package usecase

import "fmt"

// Stable error codes a sync run can fail with. Callers branch on the code,
// never on the message text.
const (
	CodeOffline         = "offline"
	CodeUnauthenticated = "unauthenticated"
	CodeCorruptedAuth   = "corrupted-auth"
	CodeVendorMissing   = "vendor-missing"
	CodeSessionExpired  = "session-expired"
	CodeAPIError        = "api-error"
	CodeUnknown         = "unknown"
)

// SyncError is the failure type every sync run surfaces. Details carries the
// failing resource or endpoint when one is known.
type SyncError struct {
	Code    string
	Message string
	Details string
	Cause   error
}

func (e *SyncError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *SyncError) Unwrap() error {
	return e.Cause
}

func newSyncError(code, message string) *SyncError {
	return &SyncError{Code: code, Message: message}
}
