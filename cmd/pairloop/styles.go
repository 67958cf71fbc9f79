package main

import "github.com/charmbracelet/lipgloss"

// Centralized style definitions for the transcript printer.
var (
	// Executor (task, auto-replies) styles.
	executorPrefixStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4")) // blue

	// Reasoner styles.
	reasonerPrefixStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")) // cyan
	answerBlockStyle    = lipgloss.NewStyle().PaddingLeft(1)

	// Tool call styles.
	toolNameStyle   = lipgloss.NewStyle().Bold(true)
	toolResultStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")) // dim gray
	toolErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1")) // red

	// Nested conversation styles.
	nestedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5")) // magenta

	// Outcome styles.
	terminatedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2")) // green
	exhaustedStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3")) // yellow

	// General utility styles.
	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	// Error block style.
	errorBlockStyle = lipgloss.NewStyle().
			PaddingLeft(1).
			BorderLeft(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color("1"))
)

// Tree-drawing characters for nested output.
const (
	treeCorner = "└ "
	treePipe   = "│ "
)
