// Package form walks an Easy Apply modal page by page and fills its fields.
//
// The modal is reached through the small interfaces in modal.go, so the
// traversal runs the same against a live browser page and against a saved
// HTML snapshot. A Wizard classifies each page by its heading, fills
// question pages with a Filler, picks the navigation button, and stops on
// submit, on a repeated page, on a missing button, after MaxSteps pages or
// when the time budget runs out.
package form
