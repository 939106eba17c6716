package pages

import (
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

const (
	userRowSelector      = "tbody tr"
	usernameCellSelector = "tbody tr td:nth-child(2)"
)

// UsersPage is "/users": a region filter over a users table with the
// columns ID, Username, Email and Region.
type UsersPage struct {
	*BasePage

	UsersTitle     playwright.Locator
	RegionFilter   playwright.Locator
	UsersContainer playwright.Locator
	UserCount      playwright.Locator
}

func NewUsersPage(page playwright.Page) *UsersPage {
	return &UsersPage{
		BasePage:       NewBasePage(page),
		UsersTitle:     page.Locator("#users-title"),
		RegionFilter:   page.Locator("#region-filter"),
		UsersContainer: page.Locator("#users-container"),
		UserCount:      page.Locator("#user-count"),
	}
}

func (u *UsersPage) Navigate() error {
	if err := u.Goto("/users"); err != nil {
		return err
	}
	return u.WaitForPageLoad()
}

// FilterByRegion selects region ("" for all) and waits for the table to
// refresh.
func (u *UsersPage) FilterByRegion(region string) error {
	if _, err := u.RegionFilter.SelectOption(playwright.SelectOptionValues{Values: &[]string{region}}); err != nil {
		return fmt.Errorf("pages: filter users by %q: %w", region, err)
	}
	u.Wait(time.Second)
	return nil
}

func (u *UsersPage) UserRows() playwright.Locator {
	return u.page.Locator(userRowSelector)
}

func (u *UsersPage) UserByUsername(username string) playwright.Locator {
	return u.page.Locator(fmt.Sprintf(`%s:has-text(%q)`, userRowSelector, username))
}

func (u *UsersPage) Count() (int, error) {
	return u.UserRows().Count()
}

func (u *UsersPage) CountText() (string, error) {
	return u.UserCount.TextContent()
}

func (u *UsersPage) VerifyUserDisplayed(username string) error {
	return u.expect.Locator(u.UserByUsername(username)).ToBeVisible()
}

func (u *UsersPage) VerifyUserNotDisplayed(username string) error {
	return u.expect.Locator(u.UserByUsername(username)).Not().ToBeVisible()
}

func (u *UsersPage) VerifyUsersCount(want int) error {
	got, err := u.Count()
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("pages: expected %d users, found %d", want, got)
	}
	return nil
}

func (u *UsersPage) AllUsernames() ([]string, error) {
	return u.page.Locator(usernameCellSelector).AllTextContents()
}

func (u *UsersPage) WaitForUsersToLoad() error {
	return u.waitFor(userRowSelector, playwright.WaitForSelectorStateVisible, DefaultTimeout)
}
