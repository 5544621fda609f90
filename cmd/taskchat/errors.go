package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/elee1766/taskchat/src/apperr"
	"github.com/elee1766/taskchat/src/openaiclient"
	"github.com/elee1766/taskchat/src/orclient"
)

// Exit codes following standard conventions
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error
	ExitUsage       = 2 // Usage error
	ExitConfig      = 3 // Configuration error
	ExitAuth        = 4 // Authentication error
	ExitNotFound    = 5 // Conversation or task not found
	ExitUpstream    = 6 // Model API unavailable
	ExitInterrupted = 8 // Interrupted by user
	ExitInternal    = 9 // Internal error
)

// ErrorHandler handles different types of errors and exits with appropriate codes
type ErrorHandler struct {
	logger *slog.Logger
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// HandleError handles an error and exits with the appropriate code
func (h *ErrorHandler) HandleError(err error) {
	if err == nil {
		return
	}
	h.logger.Debug("command failed", "error", err)
	fmt.Fprintf(os.Stderr, "Error: %s\n", userMessage(err))
	os.Exit(exitCode(err))
}

// exitCode determines the appropriate exit code for an error
func exitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	case errors.Is(err, orclient.ErrNoAPIKey), errors.Is(err, openaiclient.ErrNoAPIKey):
		return ExitAuth
	case strings.HasPrefix(err.Error(), "configuration"):
		return ExitConfig
	}

	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return ExitUsage
	case apperr.KindNotFound, apperr.KindOwnership:
		return ExitNotFound
	case apperr.KindUpstream:
		return ExitUpstream
	}

	var ae *apperr.Error
	if errors.As(err, &ae) {
		return ExitInternal
	}
	return ExitError
}

// userMessage hides internal details of classified errors; unclassified
// errors come from the CLI itself and are shown as is.
func userMessage(err error) string {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		return err.Error()
	}
	return apperr.Public(err).Message
}

// FatalError logs a fatal error and exits
func FatalError(logger *slog.Logger, err error) {
	NewErrorHandler(logger).HandleError(err)
}
