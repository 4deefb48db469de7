package editor

import "smartnotes/internal/plaintext"

// Changed reports whether current content differs meaningfully from the
// baseline. Both sides are compared as trimmed plain text, and all-whitespace
// content never counts as changed: a brand-new empty draft is not dirty and
// "Save" must not activate for it.
func Changed(currentRich, baselineRich string) bool {
	current := plaintext.Strip(currentRich)
	if current == "" {
		return false
	}
	return current != plaintext.Strip(baselineRich)
}
