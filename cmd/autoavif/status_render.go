package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

type checkState int

const (
	stateInfo checkState = iota
	stateOK
	stateWarn
	stateFail
)

var stateStyles = map[checkState]struct {
	label string
	color string
}{
	stateInfo: {"INFO", "\x1b[34m"},
	stateOK:   {"OK", "\x1b[32m"},
	stateWarn: {"WARN", "\x1b[33m"},
	stateFail: {"FAIL", "\x1b[31m"},
}

const ansiReset = "\x1b[0m"

const checkLabelWidth = 24

// checkPrinter writes aligned check lines, colored when out is a terminal.
type checkPrinter struct {
	out   io.Writer
	color bool
}

func newCheckPrinter(out io.Writer) *checkPrinter {
	return &checkPrinter{out: out, color: isTerminal(out)}
}

func (p *checkPrinter) section(title string) {
	heading := "== " + strings.TrimSpace(title) + " =="
	if p.color {
		heading = stateStyles[stateInfo].color + heading + ansiReset
	}
	fmt.Fprintln(p.out, heading)
}

func (p *checkPrinter) line(label string, state checkState, detail string) {
	fmt.Fprintln(p.out, formatCheckLine(label, state, detail, p.color))
}

func formatCheckLine(label string, state checkState, detail string, color bool) string {
	style := stateStyles[state]
	status := "[" + style.label + "]"
	if detail != "" {
		status += " " + detail
	}
	line := fmt.Sprintf("  %-*s %s", checkLabelWidth, label+":", status)
	if color {
		return style.color + line + ansiReset
	}
	return line
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
