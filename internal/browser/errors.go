package browser

import "errors"

// Session errors.
var (
	// ErrLoginFailed is returned when the feed does not appear after
	// submitting credentials within the login timeout. A security
	// checkpoint can be solved by hand in the browser window during that
	// time.
	ErrLoginFailed = errors.New("linkedin login failed")

	// ErrNoJobs is returned when the search page shows no job cards.
	ErrNoJobs = errors.New("no job cards found")

	// ErrCardGone is returned when a job card index is past the end of
	// the list, usually because LinkedIn re-rendered it.
	ErrCardGone = errors.New("job card no longer available")

	// ErrNoEasyApply is returned when no Easy Apply button is visible.
	ErrNoEasyApply = errors.New("easy apply button not found")

	// ErrNoModal is returned when the application dialog does not open.
	ErrNoModal = errors.New("application dialog not found")
)
