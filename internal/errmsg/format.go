// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Catalog operations
	OpCatalogLoad  Op = "load catalog"
	OpArtistSave   Op = "save artist"
	OpArtistDelete Op = "delete artist"
	OpTrackSave    Op = "save track"
	OpTrackDelete  Op = "delete track"

	// Store operations
	OpStoreOpen  Op = "open data store"
	OpStoreRead  Op = "read stored document"
	OpStoreWrite Op = "write stored document"

	// Playback operations
	OpPlaybackStart Op = "start playback"
	OpPlaybackSeek  Op = "seek"
	OpStreamRecord  Op = "record stream"
	OpLikeToggle    Op = "update likes"

	// Payment operations
	OpPaymentProcess Op = "process payment"
	OpLedgerLoad     Op = "load payment ledger"

	// Initialization
	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
