// Package answer decides what to type or pick for an application question.
//
// Answers come from three sources, tried in order: fixed rules keyed by a
// question fragment, a language model grounded in the resume, and a
// keyword fallback that always produces something plausible. The model is
// optional; without it the rules and the fallback answer everything.
package answer
