package pages

import (
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

// HomePage is "/": the title, the region selector and the navigation bar.
type HomePage struct {
	*BasePage

	AppTitle      playwright.Locator
	RegionSelect  playwright.Locator
	CurrentRegion playwright.Locator
	NavHome       playwright.Locator
	NavLogin      playwright.Locator
	NavProducts   playwright.Locator
	NavUsers      playwright.Locator
}

func NewHomePage(page playwright.Page) *HomePage {
	return &HomePage{
		BasePage:      NewBasePage(page),
		AppTitle:      page.Locator("#app-title"),
		RegionSelect:  page.Locator("#region-select"),
		CurrentRegion: page.Locator("#current-region"),
		NavHome:       page.Locator("#nav-home"),
		NavLogin:      page.Locator("#nav-login"),
		NavProducts:   page.Locator("#nav-products"),
		NavUsers:      page.Locator("#nav-users"),
	}
}

func (h *HomePage) Navigate() error {
	if err := h.Goto("/"); err != nil {
		return err
	}
	return h.WaitForPageLoad()
}

// SelectRegion picks region in the selector and gives the page script time
// to update the label and localStorage.
func (h *HomePage) SelectRegion(region string) error {
	if _, err := h.RegionSelect.SelectOption(playwright.SelectOptionValues{Values: &[]string{region}}); err != nil {
		return fmt.Errorf("pages: select region %q: %w", region, err)
	}
	h.Wait(500 * time.Millisecond)
	return nil
}

// CurrentRegionText is the label next to the selector, e.g. "EU".
func (h *HomePage) CurrentRegionText() (string, error) {
	return h.CurrentRegion.TextContent()
}

// StoredRegion reads the selection the page persisted in localStorage.
func (h *HomePage) StoredRegion() (string, error) {
	v, err := h.page.Evaluate(`() => localStorage.getItem('selectedRegion')`)
	if err != nil {
		return "", err
	}
	s, _ := v.(string)
	return s, nil
}

func (h *HomePage) VerifyPageTitle(expected string) error {
	return h.expect.Locator(h.AppTitle).ToHaveText(expected)
}

func (h *HomePage) GoToLogin() error    { return h.follow(h.NavLogin) }
func (h *HomePage) GoToProducts() error { return h.follow(h.NavProducts) }
func (h *HomePage) GoToUsers() error    { return h.follow(h.NavUsers) }

func (h *HomePage) VerifyNavigationVisible() error {
	for _, link := range []playwright.Locator{h.NavHome, h.NavLogin, h.NavProducts, h.NavUsers} {
		if err := h.expect.Locator(link).ToBeVisible(); err != nil {
			return err
		}
	}
	return nil
}

func (h *HomePage) follow(link playwright.Locator) error {
	if err := link.Click(); err != nil {
		return err
	}
	return h.WaitForPageLoad()
}
