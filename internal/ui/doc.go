// Package ui provides semantic text formatting for CLI output.
//
// Formatters render content by role rather than by color:
//
//	ui.Code.Sprint("pinsign generate")   // Commands
//	ui.Path.Sprint("/media/KEYS")        // File paths
//	ui.Success.Sprint("✓")               // Success marks
//	ui.Error.Sprint("✗")                 // Error marks
//	ui.Highlight.Sprint(fingerprint)     // User values
//	ui.Muted.Sprint("vfat")              // Secondary text
//
// Verdict renders a signature.Result and Bytes renders volume sizes.
//
// # Color Behavior
//
// Colors are disabled when NO_COLOR is set or the terminal does not support
// them. Without color, Code gets `backticks`, Highlight gets 'single quotes',
// Muted gets (parentheses) and the rest are printed as-is.
package ui
