package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"golang.org/x/term"
)

// unknownTotalStep is how often line-mode progress is printed when the
// server did not declare a length.
const unknownTotalStep = 1 << 20

// progressPrinter renders fetch progress. On a terminal it rewrites one
// line; otherwise it prints a line every ten percent.
type progressPrinter struct {
	w       io.Writer
	inPlace bool

	lastBucket int64
	wrote      bool
}

func newProgressPrinter(w io.Writer) *progressPrinter {
	inPlace := false
	if f, ok := w.(*os.File); ok {
		inPlace = term.IsTerminal(int(f.Fd()))
	}
	return &progressPrinter{w: w, inPlace: inPlace, lastBucket: -1}
}

// Update matches fetch.ProgressFunc.
func (p *progressPrinter) Update(received, total int64) {
	line := formatProgress(received, total)

	if p.inPlace {
		fmt.Fprintf(p.w, "\r%s", line)
		p.wrote = true
		return
	}

	var bucket int64
	if total > 0 {
		bucket = received * 10 / total
	} else {
		bucket = received / unknownTotalStep
	}
	if bucket == p.lastBucket {
		return
	}
	p.lastBucket = bucket
	fmt.Fprintln(p.w, line)
}

// Finish ends an in-place progress line.
func (p *progressPrinter) Finish() {
	if p.inPlace && p.wrote {
		fmt.Fprintln(p.w)
	}
}

func formatProgress(received, total int64) string {
	if total < 0 {
		return fmt.Sprintf("Downloaded %s", humanize.IBytes(uint64(received)))
	}

	percent := int64(100)
	if total > 0 {
		percent = received * 100 / total
	}
	return fmt.Sprintf("Downloaded %s / %s (%d%%)",
		humanize.IBytes(uint64(received)), humanize.IBytes(uint64(total)), percent)
}
