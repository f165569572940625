package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"srcmerge/cmd"
	"srcmerge/pkg/logging"

	"go.uber.org/zap"
	"golang.org/x/term"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cmd.Execute(ctx)
	stop()

	if err != nil {
		logging.Logger.Error("srcmerge execution failed", zap.Error(err))
		syncLogger()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	syncLogger()
}

// syncLogger flushes the logger. Syncing a pipe or character device other
// than a terminal fails with "invalid argument", which is not worth reporting.
func syncLogger() {
	if !term.IsTerminal(int(os.Stderr.Fd())) && !isRegularFile(os.Stderr) {
		return
	}
	if syncErr := logging.Logger.Sync(); syncErr != nil {
		if !strings.Contains(strings.ToLower(syncErr.Error()), "invalid argument") {
			log.Printf("Logger sync failed: %v", syncErr)
		}
	}
}

// isRegularFile checks if the given file is a regular file.
func isRegularFile(f *os.File) bool {
	fileInfo, err := f.Stat()
	if err != nil {
		return false
	}
	return fileInfo.Mode().IsRegular()
}
