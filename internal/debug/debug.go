package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const maxLogSize = 10 * 1024 * 1024

var (
	enabled bool
	mu      sync.RWMutex
	out     io.Writer
	logFile *os.File
	logPath string
)

// DefaultLogPath returns the default debug log path
func DefaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "gridsel_debug.log")
	}
	return filepath.Join(home, ".gridsel", "debug.log")
}

// Init initializes debug logging with the given state
func Init(enable bool) {
	mu.Lock()
	defer mu.Unlock()
	enabled = enable
	if enable {
		openOutput()
	}
}

// SetOutput sends debug output to w instead of the log file.
// Passing nil goes back to the log file on the next Enable.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	closeFile()
	out = w
}

// openOutput creates/opens the log file unless an explicit writer is set
func openOutput() {
	if out != nil {
		return
	}
	logPath = DefaultLogPath()

	dir := filepath.Dir(logPath)
	_ = os.MkdirAll(dir, 0755)

	// Rotate log if it's too big
	if info, err := os.Stat(logPath); err == nil && info.Size() > maxLogSize {
		_ = os.Rename(logPath, logPath+".old")
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	logFile = f
	out = f

	fmt.Fprintf(out, "\n=== Debug session started at %s ===\n", time.Now().Format(time.RFC3339))
}

func closeFile() {
	if logFile != nil {
		_ = logFile.Close()
		if out == logFile {
			out = nil
		}
		logFile = nil
	}
}

// writeLocked writes a timestamped line; mu must be held
func writeLocked(msg string) {
	if out == nil {
		return
	}
	fmt.Fprintf(out, "[%s] %s\n", time.Now().Format("15:04:05.000"), msg)
}

// Enable turns on debug logging
func Enable() {
	mu.Lock()
	defer mu.Unlock()
	if enabled {
		return
	}
	enabled = true
	openOutput()
	writeLocked("Debug logging enabled")
}

// Disable turns off debug logging
func Disable() {
	mu.Lock()
	defer mu.Unlock()
	if !enabled {
		return
	}
	writeLocked("Debug logging disabled")
	enabled = false
}

// Toggle switches the debug logging state and returns the new state
func Toggle() bool {
	mu.Lock()
	defer mu.Unlock()
	enabled = !enabled
	if enabled {
		openOutput()
		writeLocked("Debug logging enabled via toggle")
	} else {
		writeLocked("Debug logging disabled via toggle")
	}
	return enabled
}

// IsEnabled returns whether debug logging is enabled
func IsEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// Log writes a debug message if debug mode is enabled
func Log(format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()

	if !enabled {
		return
	}
	writeLocked(fmt.Sprintf(format, args...))
}

// LogPath returns the current log file path, empty when writing elsewhere
func LogPath() string {
	mu.RLock()
	defer mu.RUnlock()
	if logFile == nil {
		return ""
	}
	return logPath
}

// Close closes the log file
func Close() {
	mu.Lock()
	defer mu.Unlock()
	closeFile()
}
