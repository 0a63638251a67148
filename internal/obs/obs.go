// Package obs provides component-tagged structured logging, toggled by the
// MATCHD_DEBUG environment variable or a build-time flag. Adapted from the
// teacher's internal/debug package: same mutex-guarded writer swap, minus
// the MCP-protocol suppression (matchd has no stdio protocol to protect)
// and with match-domain component tags in place of the teacher's
// indexing/search/MCP ones.
package obs

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// EnableDebug is a build flag, overridable via:
//
//	go build -ldflags "-X github.com/standardbeagle/matchd/internal/obs.EnableDebug=true"
var EnableDebug = "false"

var (
	output io.Writer
	mu     sync.Mutex
)

// SetOutput sets the writer debug output goes to. Pass nil to disable.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// IsEnabled reports whether debug logging is active: the build flag or the
// MATCHD_DEBUG=1 environment override.
func IsEnabled() bool {
	if EnableDebug == "true" {
		return true
	}
	v := os.Getenv("MATCHD_DEBUG")
	return v == "1" || v == "true"
}

func writer() io.Writer {
	mu.Lock()
	defer mu.Unlock()
	return output
}

// Log writes a component-tagged debug line when debug logging is enabled.
func Log(component, format string, args ...any) {
	if !IsEnabled() {
		return
	}
	w := writer()
	if w == nil {
		return
	}
	fmt.Fprintf(w, "[DEBUG:%s] "+format+"\n", append([]any{component}, args...)...)
}

// LogMatch logs a debug line tagged for the match engine.
func LogMatch(format string, args ...any) { Log("MATCH", format, args...) }

// LogStore logs a debug line tagged for the store collaborator.
func LogStore(format string, args ...any) { Log("STORE", format, args...) }

// LogServer logs a debug line tagged for the HTTP server.
func LogServer(format string, args ...any) { Log("SERVER", format, args...) }
