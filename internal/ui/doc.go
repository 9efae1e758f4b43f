// Package ui styles terminal output for the slbridge CLI with lipgloss.
package ui
