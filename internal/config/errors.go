package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and can be matched with
// errors.Is().
var (
	// ErrMissingEmail is returned when no LinkedIn email is configured.
	ErrMissingEmail = errors.New("missing LinkedIn email: set LINKEDIN_EMAIL")

	// ErrMissingPassword is returned when no LinkedIn password is configured.
	ErrMissingPassword = errors.New("missing LinkedIn password: set LINKEDIN_PASSWORD")

	// ErrMissingResume is returned when no resume path is configured.
	ErrMissingResume = errors.New("missing resume: set RESUME_PATH or use --resume")

	// ErrMissingAPIKey is returned when the language model is enabled
	// but no API key is configured.
	ErrMissingAPIKey = errors.New("missing OpenAI API key: set OPENAI_API_KEY or use --no-llm")

	// ErrInvalidMaxApplies is returned when the application count is not positive.
	ErrInvalidMaxApplies = errors.New("invalid max applies: must be positive")

	// ErrInvalidModalTimeout is returned when the modal timeout is not positive.
	ErrInvalidModalTimeout = errors.New("invalid modal timeout: must be positive")

	// ErrInvalidMaxSteps is returned when the wizard step limit is not positive.
	ErrInvalidMaxSteps = errors.New("invalid max modal steps: must be positive")

	// ErrInvalidRetries is returned when the completion retry count is not positive.
	ErrInvalidRetries = errors.New("invalid llm retries: must be positive")

	// ErrNoSearch is returned when neither keywords nor a search URL is set.
	ErrNoSearch = errors.New("no search specified: provide --keywords or --search-url")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidEnvValue is returned when a numeric or duration environment
	// variable cannot be parsed.
	ErrInvalidEnvValue = errors.New("invalid environment value")
)
