// Package tui provides the terminal side of flatten.
//
// It handles:
//   - Structured logging and progress reporting (Splog)
//   - Terminal styling and colors (using lipgloss)
//   - The yes/no confirmation prompt (using bubbletea)
package tui
