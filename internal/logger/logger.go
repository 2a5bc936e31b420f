package logger

import (
	"fmt"
	"io"
	"os"

	clog "github.com/charmbracelet/log" // Leveled diagnostics for --debug
	"github.com/fatih/color"            // Colored tags for operator status lines
)

// Tag functions render the bracketed prefix of each status line in its color.
// The message itself is printed uncolored so it stays readable when copied.
var (
	infoTag    = color.New(color.FgBlue).SprintFunc()
	successTag = color.New(color.FgGreen).SprintFunc()
	warningTag = color.New(color.FgYellow).SprintFunc()
	errorTag   = color.New(color.FgRed).SprintFunc()
)

// out receives every status line. color.Output handles Windows consoles
// and is a plain stdout wrapper everywhere else.
var out io.Writer = color.Output

// debugLog carries diagnostics (commands run, paths probed) to stderr.
// It stays at info level, which silences Debug, until Init enables it.
var debugLog = clog.NewWithOptions(os.Stderr, clog.Options{
	ReportTimestamp: true,
	Prefix:          "mac-bootstrap",
})

// Init turns debug diagnostics on or off.
// Called once from the root command's PersistentPreRun with the --debug flag.
func Init(enableDebug bool) {
	if enableDebug {
		debugLog.SetLevel(clog.DebugLevel)
	} else {
		debugLog.SetLevel(clog.InfoLevel)
	}
}

// SetOutput redirects status lines, returning the previous writer so tests can restore it.
func SetOutput(w io.Writer) io.Writer {
	prev := out
	out = w
	return prev
}

// Info reports progress, e.g. "Installing jq...".
func Info(format string, a ...any) { line(infoTag("[INFO]"), format, a...) }

// Success reports a step that changed the machine or confirmed it is already in place.
func Success(format string, a ...any) { line(successTag("[SUCCESS]"), format, a...) }

// Warning reports a tolerated failure; the sequence keeps going.
func Warning(format string, a ...any) { line(warningTag("[WARNING]"), format, a...) }

// Error reports a failure that stops the sequence.
func Error(format string, a ...any) { line(errorTag("[ERROR]"), format, a...) }

// Debug logs structured key/value diagnostics when --debug is set.
func Debug(msg string, keyvals ...any) { debugLog.Debug(msg, keyvals...) }

// Print writes raw text with no tag, used for the summary block and check tables.
func Print(s string) { fmt.Fprint(out, s) }

func line(tag, format string, a ...any) {
	fmt.Fprintf(out, "%s %s\n", tag, fmt.Sprintf(format, a...))
}
