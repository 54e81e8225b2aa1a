package config

import "time"

// AnswerRule maps a question fragment to a fixed answer.
// Match is compared case-insensitively against the question label.
type AnswerRule struct {
	// Match is the question fragment, e.g. "require sponsorship".
	Match string `yaml:"match"`

	// Answer is the value to type, or the option to pick for selects
	// and radio groups.
	Answer string `yaml:"answer"`
}

// SearchSection configures the job search.
type SearchSection struct {
	// Keywords is the search query.
	Keywords string `yaml:"keywords,omitempty"`

	// Location narrows the search, e.g. "Berlin" or "Remote".
	Location string `yaml:"location,omitempty"`

	// URL replaces the generated search URL entirely.
	URL string `yaml:"url,omitempty"`
}

// File represents the structure of the .easyapply configuration file.
// Credentials are deliberately absent; they come from the environment.
type File struct {
	Search SearchSection `yaml:"search,omitempty"`

	// Role is the position name used in prompts.
	Role string `yaml:"role,omitempty"`

	// Resume is the resume path.
	Resume string `yaml:"resume,omitempty"`

	// Model is the chat completion model name.
	Model string `yaml:"model,omitempty"`

	MaxApplies    int           `yaml:"maxApplies,omitempty"`
	ModalTimeout  time.Duration `yaml:"modalTimeout,omitempty"`
	MaxModalSteps int           `yaml:"maxModalSteps,omitempty"`

	// CSV is the outcome file path.
	CSV string `yaml:"csv,omitempty"`

	// Answers are evaluated before the built-in rules.
	Answers []AnswerRule `yaml:"answers,omitempty"`
}
