// Package model defines the data structures shared across easyapply.
//
// This package contains the following main types:
//   - Job: a job card found in the search results
//   - Attempt: the working state of one application attempt
//   - Outcome: how the application modal traversal ended
//   - ApplicationRecord: one row of the outcome file and history database
//   - RunSummary: all attempts of one run, used for reporting
//
// Models live in their own package so the browser, pipeline, database and
// report packages can share them without import cycles.
package model
