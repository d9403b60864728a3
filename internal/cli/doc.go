// Package cli provides the flatten command line: flag parsing, configuration
// layering, the confirmation prompt, and the hand-off to the actions package.
package cli
