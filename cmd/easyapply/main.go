// Package main provides the entry point for the easyapply CLI.
//
// easyapply signs in to LinkedIn, searches for jobs with Easy Apply,
// fills the application forms and records every attempt.
//
// Usage:
//
//	easyapply install
//	easyapply apply --max 5 --keywords "Software Engineer Intern"
//	easyapply history --stats
//
// See --help for all available options.
package main

func main() {
	Execute()
}
