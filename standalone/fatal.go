package standalone

import (
	"os"

	"github.com/sqweek/dialog"
	"golang.org/x/term"
)

// appTitle names the host in window and dialog titles.
const appTitle = "Agon Light"

// ReportError logs err at critical level. When stderr is not a terminal
// (launched from a desktop shell) it also shows a native error dialog so the
// failure is visible.
func ReportError(err error) {
	log.Criticalf("%s", err)
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		dialog.Message("%s", err.Error()).Title(appTitle).Error()
	}
}

// Fatal reports err and terminates the process with exit status 1.
func Fatal(err error) {
	ReportError(err)
	os.Exit(1)
}
