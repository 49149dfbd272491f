package main

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// palette holds the colors used for status words. Every color is disabled
// when the writer is not a terminal.
type palette struct {
	ok     *color.Color
	warn   *color.Color
	fail   *color.Color
	header *color.Color
	dim    *color.Color
}

func newPalette(w io.Writer) palette {
	p := palette{
		ok:     color.New(color.FgGreen),
		warn:   color.New(color.FgYellow),
		fail:   color.New(color.FgRed, color.Bold),
		header: color.New(color.FgCyan, color.Bold),
		dim:    color.New(color.Faint),
	}
	colorize := shouldColorize(w)
	for _, c := range []*color.Color{p.ok, p.warn, p.fail, p.header, p.dim} {
		if colorize {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func checkMark(p palette, value bool) string {
	if value {
		return p.ok.Sprint("✓")
	}
	return p.dim.Sprint("·")
}
