// Package snapshot loads a saved application dialog and exposes it as a
// form.Modal without a browser.
//
// A snapshot is the outer HTML of one wizard page, written by the browser
// session when an application ends incomplete. Running the wizard over it
// shows which controls would be filled and with what, and which button
// would be clicked. Fills change the in-memory document only; every change
// is recorded as an Action.
//
// A snapshot holds a single page, so clicking any button ends it.
package snapshot
