//go:build windows

// Package stderr is a no-op on Windows; the audio backends there do not
// write decoder noise to fd 2.
package stderr

// Lines is never written to on Windows.
var Lines = make(chan string)

// Start is a no-op on Windows.
func Start() error {
	return nil
}

// Stop is a no-op on Windows.
func Stop() {}
