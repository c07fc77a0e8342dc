package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

const (
	colorRed   = "\x1b[31m"
	colorGreen = "\x1b[32m"
	colorReset = "\x1b[0m"
)

// colorEnabled reports whether w is a terminal and NO_COLOR is unset.
func colorEnabled(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func paint(w io.Writer, color, s string) string {
	if !colorEnabled(w) {
		return s
	}
	return color + s + colorReset
}

// printError writes err followed by one line per wrapped cause.
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %s\n", paint(w, colorRed, "Error:"), headline(err))
	for cause := errors.Unwrap(err); cause != nil; cause = errors.Unwrap(cause) {
		fmt.Fprintf(w, "%s %s\n", paint(w, colorRed, "  Caused by:"), headline(cause))
	}
}

// headline is err's own message with the text of its cause removed.
func headline(err error) string {
	msg := err.Error()
	if next := errors.Unwrap(err); next != nil {
		msg = strings.TrimSuffix(msg, ": "+next.Error())
	}
	return msg
}
