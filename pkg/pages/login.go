package pages

import (
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

// messageTimeout bounds the wait for the login result banner.
const messageTimeout = 5 * time.Second

// LoginPage is "/login".
type LoginPage struct {
	*BasePage

	UsernameInput playwright.Locator
	PasswordInput playwright.Locator
	LoginButton   playwright.Locator
	Message       playwright.Locator
	LoginTitle    playwright.Locator
}

func NewLoginPage(page playwright.Page) *LoginPage {
	return &LoginPage{
		BasePage:      NewBasePage(page),
		UsernameInput: page.Locator("#username"),
		PasswordInput: page.Locator("#password"),
		LoginButton:   page.Locator("#login-btn"),
		Message:       page.Locator("#message"),
		LoginTitle:    page.Locator("#login-title"),
	}
}

func (l *LoginPage) Navigate() error {
	if err := l.Goto("/login"); err != nil {
		return err
	}
	return l.WaitForPageLoad()
}

// Login fills the form and submits it. It does not wait for the result.
func (l *LoginPage) Login(username, password string) error {
	if err := l.UsernameInput.Fill(username); err != nil {
		return err
	}
	if err := l.PasswordInput.Fill(password); err != nil {
		return err
	}
	return l.LoginButton.Click()
}

// MessageText waits for the result banner and returns its text.
func (l *LoginPage) MessageText() (string, error) {
	err := l.Message.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(millis(messageTimeout)),
	})
	if err != nil {
		return "", fmt.Errorf("pages: login message: %w", err)
	}
	return l.Message.TextContent()
}

func (l *LoginPage) VerifyLoginSuccess(expected string) error {
	return l.verifyMessage(expected)
}

func (l *LoginPage) VerifyLoginFailure(expected string) error {
	return l.verifyMessage(expected)
}

func (l *LoginPage) IsDisplayed() (bool, error) {
	return l.LoginTitle.IsVisible()
}

// PageTitle is the heading text, not the document title.
func (l *LoginPage) PageTitle() (string, error) {
	return l.LoginTitle.TextContent()
}

// UsernameValid reports the browser's constraint validation state of the
// username field.
func (l *LoginPage) UsernameValid() (bool, error) {
	v, err := l.UsernameInput.Evaluate(`el => el.validity.valid`, nil)
	if err != nil {
		return false, err
	}
	ok, _ := v.(bool)
	return ok, nil
}

func (l *LoginPage) verifyMessage(expected string) error {
	msg, err := l.MessageText()
	if err != nil {
		return err
	}
	if !strings.Contains(msg, expected) {
		return fmt.Errorf("pages: login message %q does not contain %q", msg, expected)
	}
	return nil
}
