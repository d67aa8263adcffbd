package bot

import "fmt"

// UnsupportedFormatError reports an upload whose extension is not an accepted
// audio container.
type UnsupportedFormatError struct {
	Ext string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported audio format %q", e.Ext)
}

// Code identifies this error class in handler summary logs.
func (e *UnsupportedFormatError) Code() string { return "UNSUPPORTED_FORMAT" }

// NoSessionError reports a filename reply from a user with no open
// conversation.
type NoSessionError struct {
	UserID int64
}

func (e *NoSessionError) Error() string {
	return fmt.Sprintf("no active session for user %d", e.UserID)
}

// Code identifies this error class in handler summary logs.
func (e *NoSessionError) Code() string { return "NO_ACTIVE_SESSION" }
