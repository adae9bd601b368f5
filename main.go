package main

import (
	"log"
	"os"
	"strings"

	"tally/cmd"
	"tally/pkg/logging"
	"tally/pkg/version"

	"go.uber.org/zap"
	"golang.org/x/term"
)

func main() {
	logger, err := logging.Setup(os.Getenv("TALLY_DEBUG") != "", "tally", version.Get().Version)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// Execute the root command
	if err := cmd.Execute(logger); err != nil {
		logger.Error("tally execution failed", zap.Error(err))
		syncLogger(logger)
		os.Exit(1)
	}

	syncLogger(logger)
}

// syncLogger flushes the logger, but only when stderr can actually take a
// sync; piping stderr to a terminal makes Sync return a spurious error.
func syncLogger(logger *zap.Logger) {
	if term.IsTerminal(int(os.Stderr.Fd())) || isRegularFile(os.Stderr) {
		if syncErr := logger.Sync(); syncErr != nil {
			lowerErr := strings.ToLower(syncErr.Error())
			if !strings.Contains(lowerErr, "invalid argument") {
				log.Printf("Logger sync failed: %v", syncErr)
			}
		}
	}
}

// isRegularFile checks if the given file is a regular file.
func isRegularFile(f *os.File) bool {
	fileInfo, err := f.Stat()
	if err != nil {
		return false // Assume not a regular file if we can't get the file info
	}
	return fileInfo.Mode().IsRegular()
}
