package errmsg

import (
	"errors"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpCatalogLoad,
			err:      nil,
			expected: "",
		},
		{
			name:     "formats error with operation",
			op:       OpCatalogLoad,
			err:      errors.New("document corrupt"),
			expected: "Failed to load catalog: document corrupt",
		},
		{
			name:     "artist save operation",
			op:       OpArtistSave,
			err:      errors.New("store closed"),
			expected: "Failed to save artist: store closed",
		},
		{
			name:     "playback operation",
			op:       OpPlaybackStart,
			err:      errors.New("no audio device"),
			expected: "Failed to start playback: no audio device",
		},
		{
			name:     "payment operation",
			op:       OpPaymentProcess,
			err:      errors.New("verification failed"),
			expected: "Failed to process payment: verification failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.op, tt.err)
			if result != tt.expected {
				t.Errorf("Format(%q, %v) = %q, want %q", tt.op, tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatWith(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		context  string
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpTrackDelete,
			context:  "T001",
			err:      nil,
			expected: "",
		},
		{
			name:     "formats error with context",
			op:       OpTrackDelete,
			context:  "T001",
			err:      errors.New("store closed"),
			expected: "Failed to delete track 'T001': store closed",
		},
		{
			name:     "empty context falls back to Format",
			op:       OpTrackDelete,
			context:  "",
			err:      errors.New("store closed"),
			expected: "Failed to delete track: store closed",
		},
		{
			name:     "artist save with name context",
			op:       OpArtistSave,
			context:  "Sarah Miles",
			err:      errors.New("write failed"),
			expected: "Failed to save artist 'Sarah Miles': write failed",
		},
		{
			name:     "stream record with track context",
			op:       OpStreamRecord,
			context:  "Sunset Dreams",
			err:      errors.New("write failed"),
			expected: "Failed to record stream 'Sunset Dreams': write failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatWith(tt.op, tt.context, tt.err)
			if result != tt.expected {
				t.Errorf("FormatWith(%q, %q, %v) = %q, want %q", tt.op, tt.context, tt.err, result, tt.expected)
			}
		})
	}
}

func TestOpConstants(t *testing.T) {
	// Verify that Op constants are non-empty and produce valid messages
	ops := []Op{
		OpCatalogLoad, OpArtistSave, OpArtistDelete, OpTrackSave, OpTrackDelete,
		OpStoreOpen, OpStoreRead, OpStoreWrite,
		OpPlaybackStart, OpPlaybackSeek, OpStreamRecord, OpLikeToggle,
		OpPaymentProcess, OpLedgerLoad,
		OpInitialize,
	}

	testErr := errors.New("test error")

	for _, op := range ops {
		t.Run(string(op), func(t *testing.T) {
			if op == "" {
				t.Error("Op constant should not be empty")
			}

			result := Format(op, testErr)
			if result == "" {
				t.Error("Format should return non-empty string for non-nil error")
			}

			expected := "Failed to " + string(op) + ": test error"
			if result != expected {
				t.Errorf("Format = %q, want %q", result, expected)
			}
		})
	}
}
