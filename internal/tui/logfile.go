package tui

import (
	"os"
	"path/filepath"
)

// GetLogFilePath returns the path to the log file.
// If FLATTEN_LOG_FILE is set, uses that path ("off" disables file logging and yields "").
// Otherwise, uses ~/.flatten/logs/flatten.log
func GetLogFilePath() string {
	if customPath := os.Getenv("FLATTEN_LOG_FILE"); customPath != "" {
		if customPath == "off" {
			return ""
		}
		return customPath
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Never fall back to the current directory: it is the repository being flattened
		return filepath.Join(os.TempDir(), "flatten.log")
	}

	return filepath.Join(homeDir, ".flatten", "logs", "flatten.log")
}
