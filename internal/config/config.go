package config

import (
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These mirror the behavior of the bot when nothing is configured: a small
// number of applications per run, a five minute budget per modal and the
// intern search it was first written for.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "easyapply"

	// DefaultMaxApplies is the number of job cards processed per run.
	// Kept low so a single run does not look like bulk automation.
	DefaultMaxApplies = 5

	// DefaultCSVPath is the outcome file, relative to the working directory.
	DefaultCSVPath = "applications.csv"

	// DefaultModalTimeout bounds the time spent inside one application modal.
	DefaultModalTimeout = 300 * time.Second

	// DefaultMaxModalSteps bounds the number of wizard pages visited per modal.
	// Real Easy Apply flows rarely exceed eight pages.
	DefaultMaxModalSteps = 20

	// DefaultKeywords is the job search query.
	DefaultKeywords = "Software Engineer Intern"

	// DefaultRole is the position name used in language model prompts.
	DefaultRole = "Software Engineer Intern"

	// DefaultModel is the chat completion model used to answer questions.
	DefaultModel = "gpt-3.5-turbo"

	// DefaultLLMRetries is the number of completion attempts per question
	// before the keyword fallback is used.
	DefaultLLMRetries = 3

	// DefaultLLMTimeout is the per-request timeout for completions.
	DefaultLLMTimeout = 15 * time.Second

	// DefaultLoginTimeout is how long to wait for the feed after submitting
	// credentials. Checkpoints (CAPTCHA, 2FA) can be solved by hand in the
	// browser window within this window.
	DefaultLoginTimeout = 75 * time.Second

	// DefaultNavigationTimeout applies to page loads and selector waits.
	DefaultNavigationTimeout = 15 * time.Second

	// JobsSearchURL is the LinkedIn job search endpoint.
	JobsSearchURL = "https://www.linkedin.com/jobs/search/"
)

// Config holds all configuration options for easyapply.
// It is populated from defaults, the config file, the environment and CLI
// flags, in that order, and then passed down explicitly.
type Config struct {
	// Email is the LinkedIn account email (LINKEDIN_EMAIL).
	Email string

	// Password is the LinkedIn account password (LINKEDIN_PASSWORD).
	// It is never logged; the secure log handler redacts it.
	Password string

	// ResumePath points to the resume used as language model context
	// (RESUME_PATH). Supported formats are .docx, .txt and .md.
	ResumePath string

	// OpenAIKey is the API key for the completion endpoint (OPENAI_API_KEY).
	OpenAIKey string

	// Model is the chat completion model name.
	Model string

	// MaxApplies is the number of job cards to attempt in one run.
	MaxApplies int

	// CSVPath is the outcome file that rows are appended to.
	CSVPath string

	// ModalTimeout bounds the time spent inside one application modal.
	ModalTimeout time.Duration

	// MaxModalSteps bounds the number of wizard pages visited per modal.
	MaxModalSteps int

	// Keywords is the job search query.
	Keywords string

	// Location optionally narrows the job search.
	Location string

	// SearchURL overrides the search URL built from Keywords and Location.
	SearchURL string

	// Role is the position name used in prompts.
	Role string

	// LLMRetries is the number of completion attempts per question.
	LLMRetries int

	// LLMTimeout is the per-request completion timeout.
	LLMTimeout time.Duration

	// NoLLM disables the language model. Questions are answered from the
	// answer rules and the keyword fallback only.
	NoLLM bool

	// Headless runs Chromium without a window. LinkedIn is more likely to
	// challenge headless sessions, so the default is a visible browser.
	Headless bool

	// ManualApply makes the bot wait for the user to open each Easy Apply
	// modal by hand instead of searching for the button.
	ManualApply bool

	// SkipApplied skips jobs whose link already has a Success row in the
	// history database.
	SkipApplied bool

	// LoginTimeout is how long to wait for the feed after logging in.
	LoginTimeout time.Duration

	// NavigationTimeout applies to page loads and selector waits.
	NavigationTimeout time.Duration

	// Verbose enables detailed log output using slog.LevelDebug.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, .easyapply is searched in the current and home directories.
	ConfigFilePath string

	// Answers are user supplied question rules. They are consulted before
	// the built-in rules and the language model; the first match wins.
	Answers []AnswerRule

	// JSONReport prints the run summary as JSON.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport prints the run summary as Markdown.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile writes the run summary to a file instead of stdout.
	ReportFile string

	// DBDir is the directory holding the application history database.
	// Empty disables history.
	DBDir string

	// StateDir holds the browser storage state (cookies) between runs.
	StateDir string

	// SnapshotDir receives the HTML of modals that did not reach submit.
	// Empty disables snapshots.
	SnapshotDir string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Model:             DefaultModel,
		MaxApplies:        DefaultMaxApplies,
		CSVPath:           DefaultCSVPath,
		ModalTimeout:      DefaultModalTimeout,
		MaxModalSteps:     DefaultMaxModalSteps,
		Keywords:          DefaultKeywords,
		Role:              DefaultRole,
		LLMRetries:        DefaultLLMRetries,
		LLMTimeout:        DefaultLLMTimeout,
		SkipApplied:       true,
		LoginTimeout:      DefaultLoginTimeout,
		NavigationTimeout: DefaultNavigationTimeout,
		DBDir:             XDGDataDir(),
		StateDir:          XDGStateDir(),
		SnapshotDir:       filepath.Join(XDGCacheDir(), "snapshots"),
	}
}

// XDGDataDir returns the XDG data directory for easyapply.
// On Linux: ~/.local/share/easyapply
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for easyapply.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for easyapply.
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// XDGStateDir returns the XDG state directory for easyapply.
// On Linux: ~/.local/state/easyapply
func XDGStateDir() string {
	return filepath.Join(xdg.StateHome, AppName)
}

// StorageStatePath returns the file the browser session cookies are kept in.
// It returns an empty string when StateDir is not set.
func (c *Config) StorageStatePath() string {
	if c.StateDir == "" {
		return ""
	}
	return filepath.Join(c.StateDir, "storage_state.json")
}

// JobSearchURL returns the Easy Apply filtered search URL.
// SearchURL wins when set.
func (c *Config) JobSearchURL() string {
	if c.SearchURL != "" {
		return c.SearchURL
	}
	q := url.Values{}
	q.Set("f_AL", "true")
	q.Set("keywords", c.Keywords)
	if c.Location != "" {
		q.Set("location", c.Location)
	}
	// url.Values encodes spaces as '+', LinkedIn links use %20.
	return JobsSearchURL + "?" + strings.ReplaceAll(q.Encode(), "+", "%20")
}

// Validate checks the configuration used by the apply command.
// The first problem found is returned.
func (c *Config) Validate() error {
	if c.Email == "" {
		return ErrMissingEmail
	}
	if c.Password == "" {
		return ErrMissingPassword
	}
	if c.ResumePath == "" {
		return ErrMissingResume
	}
	if !c.NoLLM && c.OpenAIKey == "" {
		return ErrMissingAPIKey
	}
	if c.MaxApplies <= 0 {
		return ErrInvalidMaxApplies
	}
	if c.ModalTimeout <= 0 {
		return ErrInvalidModalTimeout
	}
	if c.MaxModalSteps <= 0 {
		return ErrInvalidMaxSteps
	}
	if c.LLMRetries <= 0 {
		return ErrInvalidRetries
	}
	if c.SearchURL == "" && c.Keywords == "" {
		return ErrNoSearch
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}
