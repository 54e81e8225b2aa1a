package browser

// LinkedIn URLs.
const (
	LoginURL = "https://www.linkedin.com/login"
	feedURL  = "**/feed/**"
)

// Login form.
const (
	usernameInput = "input#username"
	passwordInput = "input#password"
	loginSubmit   = "button[type='submit']"
	feedContainer = "div.feed-outlet, .global-nav"
)

// jobCard matches one entry of the search result list.
const jobCard = "li[data-occludable-job-id], li.job-card-container--clickable, .job-card-container, .jobs-search-results__list-item"

// jobLink is the link to the job posting inside a card.
const jobLink = "a[href*='/jobs/view/']"

// Card fields, tried in order.
var (
	titleSelectors   = []string{"h3", ".job-card-list__title", "[data-test-id*='title']"}
	companySelectors = []string{"h4", ".job-card-container__company-name", "[data-test-id*='company']"}
)

// easyApplySelectors find the Easy Apply button, most specific first.
var easyApplySelectors = []string{
	"button[data-test-job-apply-button]",
	"button[data-control-name='jobdetails_topcard_inapply']",

	"button:has-text('Easy Apply')",
	"button:has-text('Apply now')",
	"button:has-text('Apply')",

	"button[aria-label*='Easy Apply']",
	"button[aria-label*='Apply']",

	".jobs-apply-button",
	".jobs-s-apply",
	".artdeco-button--primary:has-text('Easy Apply')",
	".artdeco-button:has-text('Easy Apply')",

	"[data-test-id*='apply']",
	"[data-test*='apply']",
	"[data-automation-id*='apply']",

	"button[class*='apply']:has-text('Easy Apply')",
	"button[class*='apply']:has-text('Apply')",

	"button[type='button']:has-text('Easy Apply')",
	"a[role='button']:has-text('Easy Apply')",
}

// Application dialog.
const modalSelector = "div[role='dialog'], .artdeco-modal"

// modalFallbacks are tried one by one when modalSelector is not visible.
var modalFallbacks = []string{
	"div[role='dialog']",
	".artdeco-modal",
	".jobs-easy-apply-modal",
	"[data-test-modal]",
}

// Inside the dialog.
const (
	headingSelector = "h1, h2, h3, h4"
	sectionSelector = "section, div.form-section, .artdeco-modal__section"
	sectionFallback = "div"
	selectSelector  = "select"
	optionSelector  = "option"
	radioSelector   = "input[type=radio]"
	numberSelector  = "input[type=number]"
	textSelector    = "textarea, input[type=text]"
	buttonSelector  = "button"
)

// followUpSelector closes the prompts LinkedIn shows after applying.
const followUpSelector = "button:has-text('Not now'), button:has-text('Skip'), button:has-text('Maybe later')"
