// Package pipeline runs the per-job steps of an application run.
//
// Each job card becomes a model.Attempt that is passed through an ordered
// list of steps: open the card, skip it when already applied, open the Easy
// Apply modal, traverse the wizard and dismiss the follow-up prompt. A
// Runner feeds the cards of one run through a Pipeline one at a time, since
// all of them share a single browser page.
package pipeline
