package browser

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/playwright-community/playwright-go"

	"github.com/nao1215/easyapply/internal/form"
	"github.com/nao1215/easyapply/internal/model"
)

// linkedInBase resolves relative job links.
var linkedInBase = &url.URL{Scheme: "https", Host: "www.linkedin.com"}

// Search and scrolling limits.
const (
	searchAttempts    = 3
	stableScrollLimit = 10
)

// Login signs in with email and password. It returns immediately when the
// saved session already lands on the feed.
func (s *Session) Login(ctx context.Context, email, password string) error {
	if _, err := s.page.Goto(LoginURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	}); err != nil {
		return fmt.Errorf("failed to open login page: %w", err)
	}
	if strings.Contains(s.page.URL(), "/feed") {
		s.logger.Info("already logged in")
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.logger.Info("logging in", "email", email)
	if err := s.page.Locator(usernameInput).Fill(email); err != nil {
		return fmt.Errorf("failed to fill username: %w", err)
	}
	if err := s.page.Locator(passwordInput).Fill(password); err != nil {
		return fmt.Errorf("failed to fill password: %w", err)
	}
	if err := s.page.Locator(loginSubmit).First().Click(); err != nil {
		return fmt.Errorf("failed to submit login form: %w", err)
	}

	timeout := ms(s.opts.LoginTimeout)
	if err := s.page.WaitForURL(feedURL, playwright.PageWaitForURLOptions{Timeout: &timeout}); err != nil {
		return fmt.Errorf("%w: feed did not load: %w", ErrLoginFailed, err)
	}
	if err := s.page.Locator(feedContainer).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: &timeout,
	}); err != nil {
		return fmt.Errorf("%w: feed container missing: %w", ErrLoginFailed, err)
	}
	s.logger.Info("logged in")
	return nil
}

// Search opens the job search and waits for the first job card.
func (s *Session) Search(ctx context.Context, searchURL string) error {
	attempt := 0
	open := func() error {
		attempt++
		_, err := s.page.Goto(searchURL, playwright.PageGotoOptions{
			WaitUntil: playwright.WaitUntilStateDomcontentloaded,
			Timeout:   playwright.Float(ms(s.opts.NavigationTimeout)),
		})
		if err != nil {
			s.logger.Warn("search navigation failed", "attempt", attempt, "error", err)
		}
		return err
	}
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(2*time.Second), searchAttempts-1),
		ctx,
	)
	if err := backoff.Retry(open, policy); err != nil {
		return fmt.Errorf("failed to open job search: %w", err)
	}

	if err := s.page.Locator(jobCard).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: playwright.Float(ms(cardsTimeout)),
	}); err != nil {
		return fmt.Errorf("%w: %w", ErrNoJobs, err)
	}
	return nil
}

// CollectCards scrolls the result list until want cards are loaded or the
// count stops growing, and returns the number of cards.
func (s *Session) CollectCards(ctx context.Context, want int) (int, error) {
	cards := s.page.Locator(jobCard)
	prev, stable, count := 0, 0, 0

	for stable < stableScrollLimit {
		if err := ctx.Err(); err != nil {
			return count, err
		}
		n, err := cards.Count()
		if err != nil {
			return count, fmt.Errorf("failed to count job cards: %w", err)
		}
		count = n
		if count >= want {
			break
		}
		if count == prev {
			stable++
		} else {
			stable = 0
		}
		prev = count

		if count > 0 {
			if err := cards.Nth(count - 1).ScrollIntoViewIfNeeded(); err != nil {
				s.logger.Debug("failed to scroll card into view", "error", err)
			}
		} else if _, err := s.page.Evaluate("window.scrollBy(0, 1000)"); err != nil {
			s.logger.Debug("failed to scroll page", "error", err)
		}
		s.pause(ctx, 500*time.Millisecond, time.Second)
	}
	s.logger.Debug("job cards loaded", "count", count, "want", want)
	return count, nil
}

func (s *Session) card(i int) (playwright.Locator, error) {
	cards := s.page.Locator(jobCard)
	n, err := cards.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count job cards: %w", err)
	}
	if i >= n {
		return nil, ErrCardGone
	}
	return cards.Nth(i), nil
}

// Job reads title, company and link of card i. Missing fields keep their
// placeholders.
func (s *Session) Job(_ context.Context, i int) (model.Job, error) {
	job := model.NewJob(i)
	card, err := s.card(i)
	if err != nil {
		return job, err
	}

	if t := firstVisibleText(card, titleSelectors); t != "" {
		job.Title = t
	}
	if c := firstVisibleText(card, companySelectors); c != "" {
		job.Company = c
	}
	if href, err := card.Locator(jobLink).First().GetAttribute("href", playwright.LocatorGetAttributeOptions{
		Timeout: playwright.Float(ms(time.Second)),
	}); err == nil {
		job.Link = CanonicalLink(href)
	}
	return job, nil
}

func firstVisibleText(root playwright.Locator, selectors []string) string {
	for _, sel := range selectors {
		el := root.Locator(sel).First()
		if ok, err := el.IsVisible(); err != nil || !ok {
			continue
		}
		text, err := el.InnerText()
		if err != nil {
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			return text
		}
	}
	return ""
}

// CanonicalLink resolves a job href against linkedin.com and drops its
// query and fragment, which carry tracking parameters.
func CanonicalLink(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	u = linkedInBase.ResolveReference(u)
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

// OpenJob clicks card i to show its details.
func (s *Session) OpenJob(ctx context.Context, i int) error {
	card, err := s.card(i)
	if err != nil {
		return err
	}
	if err := card.Click(); err != nil {
		return fmt.Errorf("failed to open job card: %w", err)
	}
	s.pause(ctx, time.Second, 2*time.Second)
	return ctx.Err()
}

// OpenApplication clicks Easy Apply. In manual mode the user clicks it and
// presses ENTER instead.
func (s *Session) OpenApplication(ctx context.Context) error {
	if s.opts.Manual {
		return waitForEnter(ctx, s.input, s.opts.Out, s.page.URL())
	}

	for i, sel := range easyApplySelectors {
		btn := s.page.Locator(sel).First()
		n, err := btn.Count()
		if err != nil || n == 0 {
			continue
		}
		if ok, err := btn.IsVisible(); err != nil || !ok {
			s.logger.Debug("easy apply candidate not visible", "selector", sel)
			continue
		}
		if err := btn.Click(); err != nil {
			s.logger.Debug("easy apply click failed", "selector", sel, "error", err)
			continue
		}
		s.logger.Debug("clicked easy apply", "selector", sel, "index", i)
		return nil
	}
	return ErrNoEasyApply
}

// Modal waits for the application dialog.
func (s *Session) Modal(ctx context.Context) (form.Modal, error) {
	s.pause(ctx, time.Second, 2*time.Second)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root := s.page.Locator(modalSelector).First()
	if err := root.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: playwright.Float(ms(s.opts.NavigationTimeout)),
	}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoModal, err)
	}
	if ok, err := root.IsVisible(); err == nil && ok {
		return &modal{page: s.page, root: root}, nil
	}

	s.logger.Debug("dialog not visible, trying fallbacks")
	for _, sel := range modalFallbacks {
		loc := s.page.Locator(sel).First()
		if ok, err := loc.IsVisible(); err == nil && ok {
			s.logger.Debug("found dialog", "selector", sel)
			return &modal{page: s.page, root: loc}, nil
		}
	}
	return nil, ErrNoModal
}

// DismissFollowUp closes the "Not now" prompt shown after applying.
// It reports whether a prompt was closed.
func (s *Session) DismissFollowUp(ctx context.Context) (bool, error) {
	btns := s.page.Locator(followUpSelector)
	n, err := btns.Count()
	if err != nil {
		return false, fmt.Errorf("failed to look for follow-up prompt: %w", err)
	}
	if n == 0 {
		return false, nil
	}
	if err := btns.First().Click(); err != nil {
		return false, fmt.Errorf("failed to dismiss follow-up prompt: %w", err)
	}
	s.pause(ctx, 500*time.Millisecond, time.Second)
	return true, nil
}

// SaveSnapshot writes the outer HTML of the dialog, or of the whole page
// when no dialog is attached, to dir. It returns the file path.
func (s *Session) SaveSnapshot(_ context.Context, dir, name string) (string, error) {
	var content string
	root := s.page.Locator(modalSelector).First()
	if n, err := root.Count(); err == nil && n > 0 {
		v, err := root.Evaluate("el => el.outerHTML", nil)
		if err != nil {
			return "", fmt.Errorf("failed to read dialog html: %w", err)
		}
		content, _ = v.(string)
	}
	if content == "" {
		c, err := s.page.Content()
		if err != nil {
			return "", fmt.Errorf("failed to read page html: %w", err)
		}
		content = c
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	path := filepath.Join(dir, SnapshotFileName(name, time.Now()))
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}
	return path, nil
}

var unsafeName = regexp.MustCompile(`[^a-z0-9]+`)

// maxNameLength bounds the descriptive part of a snapshot file name.
const maxNameLength = 60

// SnapshotFileName turns name into "<slug>-<timestamp>.html".
func SnapshotFileName(name string, at time.Time) string {
	slug := strings.Trim(unsafeName.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if len(slug) > maxNameLength {
		slug = strings.TrimRight(slug[:maxNameLength], "-")
	}
	if slug == "" {
		slug = "modal"
	}
	return slug + "-" + at.Format("20060102-150405") + ".html"
}
