// Package logging provides structured logging utilities for drivemenu.
//
// drivemenu is interactive, so user-facing messages are printed to the menu
// and logs are written to stderr at warn level by default. Logging keeps a
// structured record of Drive operations and failures for debugging with
// --log-level=debug.
//
// # Usage Patterns
//
// Build the process logger once at startup:
//
//	logger, err := logging.New(os.Stderr, "debug", "json")
//
// Attach standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "drive.list")
//	logger.Info("listed folder",
//	    logging.FileID(folderID),
//	    logging.Status(logging.StatusSuccess))
//
// # Security Considerations
//
// Refresh tokens and client secrets are never logged.
package logging
