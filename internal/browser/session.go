package browser

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/nao1215/easyapply/internal/form"
)

// Default timeouts.
const (
	DefaultNavigationTimeout = 15 * time.Second
	DefaultLoginTimeout      = 75 * time.Second
	cardsTimeout             = 30 * time.Second
)

// launchArgs keep Chromium from announcing automation.
var launchArgs = []string{
	"--no-sandbox",
	"--disable-blink-features=AutomationControlled",
}

// Install downloads the Playwright driver and Chromium.
func Install() error {
	if err := playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}}); err != nil {
		return fmt.Errorf("failed to install playwright: %w", err)
	}
	return nil
}

// Options configures a Session.
type Options struct {
	// Headless hides the browser window.
	Headless bool

	// StorageStatePath is where cookies are loaded from and saved to.
	// Empty disables persistence.
	StorageStatePath string

	// NavigationTimeout bounds page loads and element waits.
	NavigationTimeout time.Duration

	// LoginTimeout bounds the wait for the feed after signing in.
	LoginTimeout time.Duration

	// Manual makes OpenApplication wait for the user to click Easy Apply.
	Manual bool

	// In and Out are used for manual prompts. They default to stdin and
	// stdout.
	In  io.Reader
	Out io.Writer

	// Pause is the wait between interactions.
	Pause form.Pauser

	Logger *slog.Logger
}

// Session is a Chromium window logged into LinkedIn.
type Session struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page

	opts   Options
	input  *bufio.Reader
	logger *slog.Logger
}

// NewSession starts Playwright and opens one page.
func NewSession(opts Options) (*Session, error) {
	if opts.NavigationTimeout <= 0 {
		opts.NavigationTimeout = DefaultNavigationTimeout
	}
	if opts.LoginTimeout <= 0 {
		opts.LoginTimeout = DefaultLoginTimeout
	}
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Pause == nil {
		opts.Pause = form.HumanPause
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		Args:     launchArgs,
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	ctxOpts := playwright.BrowserNewContextOptions{}
	if stateExists(opts.StorageStatePath) {
		ctxOpts.StorageStatePath = playwright.String(opts.StorageStatePath)
		opts.Logger.Debug("reusing browser state", "storage_state_path", opts.StorageStatePath)
	}
	bctx, err := browser.NewContext(ctxOpts)
	if err != nil {
		_ = browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}

	page, err := bctx.NewPage()
	if err != nil {
		_ = browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	page.SetDefaultTimeout(ms(opts.NavigationTimeout))

	return &Session{
		pw:      pw,
		browser: browser,
		context: bctx,
		page:    page,
		opts:    opts,
		input:   bufio.NewReader(opts.In),
		logger:  opts.Logger,
	}, nil
}

// URL returns the address of the current page.
func (s *Session) URL() string {
	return s.page.URL()
}

// Close saves the storage state and shuts the browser down.
func (s *Session) Close() error {
	var errs []error
	if path := s.opts.StorageStatePath; path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			errs = append(errs, fmt.Errorf("failed to create state directory: %w", err))
		} else if _, err := s.context.StorageState(path); err != nil {
			errs = append(errs, fmt.Errorf("failed to save browser state: %w", err))
		}
	}
	if err := s.browser.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close browser: %w", err))
	}
	if err := s.pw.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("failed to stop playwright: %w", err))
	}
	return errors.Join(errs...)
}

func (s *Session) pause(ctx context.Context, lo, hi time.Duration) {
	s.opts.Pause(ctx, lo, hi)
}

func stateExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// ms converts d to Playwright's millisecond timeouts.
func ms(d time.Duration) float64 {
	return float64(d.Milliseconds())
}
