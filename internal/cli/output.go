package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/sweep/internal/engine"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Scenario failures, replay divergence
	ExitCommandError = 2 // Command error (bad flags, journal not found, unknown session)
)

// Error codes reported in CLIError.Code.
const (
	CodeInput        = "E_INPUT"         // unparsable play command
	CodeBoard        = "E_BOARD"         // out of bounds or insufficient space
	CodeNotFound     = "E_NOT_FOUND"     // unknown session ID
	CodeDiverged     = "E_DIVERGED"      // journal replay mismatch
	CodeTestFailed   = "E_TEST_FAILED"   // one or more scenarios failed
	CodeNotResumable = "E_NOT_RESUMABLE" // finished or expired session
)

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code    int    // ExitFailure or ExitCommandError
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates an ExitError without an underlying cause.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps err with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitSuccess for nil and ExitFailure if err is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// CLIResponse is the JSON envelope for every command's output.
type CLIResponse struct {
	Status string    `json:"status"` // "ok" or "error"
	Data   any       `json:"data,omitempty"`
	Error  *CLIError `json:"error,omitempty"`
}

// CLIError is the error part of a CLIResponse.
type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// OutputFormatter writes command output as JSON lines or text.
type OutputFormatter struct {
	Format  string
	Writer  io.Writer
	Verbose bool

	// ErrWriter receives diagnostics so they never mix with JSON output.
	// Defaults to Writer.
	ErrWriter io.Writer
}

// newFormatter builds a formatter bound to cmd's output streams.
func newFormatter(cmd *cobra.Command, opts *RootOptions) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// JSON reports whether the formatter emits JSON.
func (f *OutputFormatter) JSON() bool {
	return f.Format == "json"
}

// Success writes data. In text mode data is printed with its String form,
// so callers pass a fmt.Stringer or a preformatted string.
func (f *OutputFormatter) Success(data any) error {
	if f.JSON() {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{Status: "ok", Data: data})
	}
	_, err := fmt.Fprint(f.Writer, ensureNewline(fmt.Sprint(data)))
	return err
}

// Error writes an error record. It does not fail the command.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.JSON() {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: message, Details: details},
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// VerboseLog writes a diagnostic line when verbose mode is on.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}

func ensureNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

// renderBoard draws a snapshot with row and column indexes:
//
//	   0  1  2
//	0  #  1  .
//	1  1  1  .
func renderBoard(s engine.Snapshot) string {
	var sb strings.Builder
	label := len(fmt.Sprint(s.Height - 1))

	sb.WriteString(strings.Repeat(" ", label))
	for c := 0; c < s.Width; c++ {
		fmt.Fprintf(&sb, "%3d", c)
	}
	sb.WriteByte('\n')

	for r, row := range s.Rows() {
		fmt.Fprintf(&sb, "%*d", label, r)
		for i := 0; i < len(row); i++ {
			fmt.Fprintf(&sb, "%3c", row[i])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// statusLine summarizes a snapshot in one line.
func statusLine(s engine.Snapshot) string {
	return fmt.Sprintf("%s  mines left: %d  moves: %d  session: %s",
		s.State, s.MinesRemaining, s.Moves, s.SessionID)
}
