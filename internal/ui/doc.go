// Package ui provides semantic text formatting for CLI output.
//
// This package defines formatters for different types of content (code,
// paths, errors, etc.) that render appropriately based on terminal
// capabilities. When colors are available, content is colorized. When
// NO_COLOR is set or the terminal doesn't support colors, text-based
// decorations (backticks, quotes) are used instead.
//
// # Semantic Formatters
//
// Use the appropriate formatter for the content type:
//
//	ui.Code.Sprint("passkeep init")        // Commands and code
//	ui.Path.Sprint("~/.passkeep")          // File paths
//	ui.Success.Sprint("✓")                 // Success indicators
//	ui.Error.Sprint("✗")                   // Error indicators
//	ui.Info.Sprint("→")                    // Informational hints
//	ui.Highlight.Sprint("john.doe")        // User values
//	ui.Muted.Sprint("optional")            // De-emphasized text
//
// # Color Behavior
//
// Colors are disabled when the NO_COLOR environment variable is set (any
// value) or when the terminal doesn't support colors (TERM=dumb, not a
// TTY). With colors disabled, formatters fall back to text decorations:
// Code gets `backticks`, Highlight gets 'single quotes', Muted gets
// (parentheses), and the rest pass through undecorated.
package ui
