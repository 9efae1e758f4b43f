package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Styles is the CLI's default palette.
var Styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t).MarginBottom(1),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

func (p *Palette) Title(s string) string { return p.title.Render(s) }
func (p *Palette) Help(s string) string  { return p.help.Render(s) }
func (p *Palette) Warn(s string) string  { return p.warn.Render(s) }

// Check renders a "✓ label  detail" line.
func (p *Palette) Check(label, detail string) string {
	return fmt.Sprintf("%s %-14s %s", p.ok.Render("✓"), label, detail)
}

// Fail renders a "✗ label  detail" line.
func (p *Palette) Fail(label, detail string) string {
	return fmt.Sprintf("%s %-14s %s", p.err.Render("✗"), label, p.err.Render(detail))
}
