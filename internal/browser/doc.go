// Package browser drives LinkedIn through a Playwright Chromium session.
//
// A Session wraps one browser context and page. It logs in, loads the job
// search, walks the job cards and opens the Easy Apply dialog, which it
// hands out as a form.Modal backed by Playwright locators.
//
// Cookies are persisted to a storage state file on Close and reused on the
// next run, so a successful login is usually only needed once.
//
// The Playwright driver and Chromium must be installed first (see Install).
package browser
