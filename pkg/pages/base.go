// Package pages wraps the mock storefront's screens in page objects for the
// browser suites. Every method returns an error instead of failing a test so
// the objects work under go test and the CLI alike.
//
//	home := pages.NewHomePage(page)
//	if err := home.Navigate(); err != nil { ... }
//	err := home.SelectRegion("eu")
package pages

import (
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

// DefaultTimeout bounds element waits that take no explicit timeout.
const DefaultTimeout = 10 * time.Second

// BasePage holds the helpers every page object shares.
type BasePage struct {
	page   playwright.Page
	expect playwright.PlaywrightAssertions
}

func NewBasePage(page playwright.Page) *BasePage {
	return &BasePage{page: page, expect: playwright.NewPlaywrightAssertions()}
}

// Page returns the underlying playwright page.
func (b *BasePage) Page() playwright.Page { return b.page }

// Goto opens path, resolved against the context's base URL.
func (b *BasePage) Goto(path string) error {
	if _, err := b.page.Goto(path); err != nil {
		return fmt.Errorf("pages: goto %s: %w", path, err)
	}
	return nil
}

// WaitForPageLoad waits until the network has been idle for 500ms.
func (b *BasePage) WaitForPageLoad() error {
	return b.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State: playwright.LoadStateNetworkidle,
	})
}

func (b *BasePage) GetByTestID(id string) playwright.Locator {
	return b.page.GetByTestId(id)
}

func (b *BasePage) GetByRole(role playwright.AriaRole, opts ...playwright.PageGetByRoleOptions) playwright.Locator {
	return b.page.GetByRole(role, opts...)
}

// GetByText accepts a string or a *regexp.Regexp.
func (b *BasePage) GetByText(text any) playwright.Locator {
	return b.page.GetByText(text)
}

func (b *BasePage) GetByPlaceholder(text string) playwright.Locator {
	return b.page.GetByPlaceholder(text)
}

func (b *BasePage) GetByLabel(text string) playwright.Locator {
	return b.page.GetByLabel(text)
}

// Click clicks a CSS selector or a Locator.
func (b *BasePage) Click(target any) error {
	loc, err := b.resolve(target)
	if err != nil {
		return err
	}
	return loc.Click()
}

// Fill types value into a CSS selector or a Locator.
func (b *BasePage) Fill(target any, value string) error {
	loc, err := b.resolve(target)
	if err != nil {
		return err
	}
	return loc.Fill(value)
}

func (b *BasePage) Title() (string, error) {
	return b.page.Title()
}

// WaitForElement waits for selector to become visible, by default within
// DefaultTimeout.
func (b *BasePage) WaitForElement(selector string, timeout ...time.Duration) error {
	d := DefaultTimeout
	if len(timeout) > 0 && timeout[0] > 0 {
		d = timeout[0]
	}
	return b.waitFor(selector, playwright.WaitForSelectorStateVisible, d)
}

// Screenshot writes a full-page PNG to path.
func (b *BasePage) Screenshot(path string) error {
	_, err := b.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	return err
}

func (b *BasePage) URL() string {
	return b.page.URL()
}

// VerifyTitle asserts the document title, retrying until the assertion
// timeout. expected may be a string or a *regexp.Regexp.
func (b *BasePage) VerifyTitle(expected any) error {
	return b.expect.Page(b.page).ToHaveTitle(expected)
}

func (b *BasePage) VerifyURLContains(text string) error {
	if url := b.page.URL(); !strings.Contains(url, text) {
		return fmt.Errorf("pages: url %q does not contain %q", url, text)
	}
	return nil
}

// Wait pauses for d. Prefer element waits; this exists for UI code that
// updates on a timer.
func (b *BasePage) Wait(d time.Duration) {
	b.page.WaitForTimeout(millis(d))
}

func (b *BasePage) resolve(target any) (playwright.Locator, error) {
	switch v := target.(type) {
	case string:
		return b.page.Locator(v), nil
	case playwright.Locator:
		return v, nil
	default:
		return nil, fmt.Errorf("pages: cannot locate %T", target)
	}
}

func (b *BasePage) waitFor(selector string, state *playwright.WaitForSelectorState, d time.Duration) error {
	_, err := b.page.WaitForSelector(selector, playwright.PageWaitForSelectorOptions{
		State:   state,
		Timeout: playwright.Float(millis(d)),
	})
	if err != nil {
		return fmt.Errorf("pages: wait for %s: %w", selector, err)
	}
	return nil
}

func millis(d time.Duration) float64 {
	return float64(d.Milliseconds())
}
