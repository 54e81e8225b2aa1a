// Package database stores application history in SQLite.
//
// The HistoryDB keeps:
//   - one row per run (search URL, cards found, counts by status)
//   - one row per attempted application, with its outcome
//
// It answers whether a posting was already applied to, so later runs can
// skip it, and backs the history command.
//
// The database lives in the XDG data directory as easyapply.db. It uses
// modernc.org/sqlite, a CGO-free driver, with WAL enabled.
package database
