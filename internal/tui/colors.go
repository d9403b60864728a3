package tui

import "github.com/charmbracelet/lipgloss"

// ColorBranchName colors a branch name
func ColorBranchName(branchName string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")).
		Render(branchName)
}

// ColorLabel colors a snapshot label
func ColorLabel(label string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("6")).
		Render(label)
}

// ColorDim makes text dim/gray
func ColorDim(text string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Render(text)
}
