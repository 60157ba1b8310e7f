package cedar

import (
	"errors"
	"log"
	"os"
)

var (
	errLog = log.New(os.Stderr, "cedar: ", 0)
	exit   = os.Exit
)

// fatal reports a programmer error or resource-exhaustion condition the way
// cedar.h's _err() does: print to stderr and terminate. Tests substitute
// exit so the call can be observed without killing the test binary.
func fatal(format string, args ...any) {
	errLog.Printf(format, args...)
	exit(1)
}

// ErrTruncated is returned by Open/OpenFast when a file's length is not a
// whole number of node records.
var ErrTruncated = errors.New("cedar: truncated array file")

// ErrNoSidecar is returned by OpenFast when the .sbl sidecar written by
// SaveFast is missing.
var ErrNoSidecar = errors.New("cedar: missing .sbl sidecar")
