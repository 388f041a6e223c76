package main

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Progress bar layout.
const (
	progressBarWidth   = 40
	progressLabelWidth = 36
)

// progressReporter advances once per finished document.
type progressReporter interface {
	Advance(label string)
	Done()
}

// noProgress is used off-terminal and with --quiet or --no-progress.
type noProgress struct{}

func (noProgress) Advance(string) {}
func (noProgress) Done()          {}

// barProgress redraws a single line on w.
type barProgress struct {
	mu         sync.Mutex
	w          io.Writer
	bar        progress.Model
	labelStyle lipgloss.Style
	total      int
	done       int
}

// newBarProgress returns a bar for total documents.
func newBarProgress(w io.Writer, total int) *barProgress {
	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = progressBarWidth

	return &barProgress{
		w:          w,
		bar:        bar,
		labelStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		total:      total,
	}
}

func (p *barProgress) Advance(label string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.done < p.total {
		p.done++
	}
	percent := 1.0
	if p.total > 0 {
		percent = float64(p.done) / float64(p.total)
	}

	label = runewidth.FillRight(truncateLabel(label, progressLabelWidth), progressLabelWidth)
	fmt.Fprintf(p.w, "\r%s %d/%d %s", p.bar.ViewAs(percent), p.done, p.total, p.labelStyle.Render(label))
}

func (p *barProgress) Done() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.done > 0 {
		fmt.Fprintln(p.w)
	}
}

// truncateLabel shortens value to width display cells.
func truncateLabel(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}

// isTerminal reports whether w is a terminal file.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// newProgress picks a reporter for the build.
func newProgress(env *Environment, flags *buildFlags, total int) progressReporter {
	if flags.common.quiet || flags.noProgress || total == 0 {
		return noProgress{}
	}
	if env.IsTerminal == nil || !env.IsTerminal(env.Stdout) {
		return noProgress{}
	}
	return newBarProgress(env.Stdout, total)
}
