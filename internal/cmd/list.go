package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/cecinput/cecinput/cecdev"
)

// List prints every CEC adapter and the devices present on its bus.
type List struct {
	Glob string `help:"Adapter device nodes to scan" default:"/dev/cec*" env:"CECINPUT_LIST_GLOB"`
}

func (l *List) Run(logger *slog.Logger) error {
	w := io.Writer(os.Stdout)
	if width, ok := terminalWidth(os.Stdout); ok {
		fmt.Fprintln(w, "CEC adapters")
		fmt.Fprintln(w, strings.Repeat("-", min(width, 40)))
	}
	logger.Debug("Scanning CEC adapters", "glob", l.Glob)
	return cecdev.New(cecdev.Config{DevGlob: l.Glob}, nil).ListDevices(w)
}

// terminalWidth reports the width of f when it is a terminal.
func terminalWidth(f *os.File) (int, bool) {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return 0, false
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return 80, true
	}
	return w, true
}
