package pages

import (
	"errors"
	"fmt"
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePage records the calls page objects make. Only the methods used by
// navigation, filtering and reads are implemented.
type fakePage struct {
	playwright.Page

	calls   []string
	url     string
	texts   map[string]string
	counts  map[string]int
	all     map[string][]string
	waitErr map[string]error
}

func newFakePage() *fakePage {
	return &fakePage{
		texts:   map[string]string{},
		counts:  map[string]int{},
		all:     map[string][]string{},
		waitErr: map[string]error{},
	}
}

func (f *fakePage) record(format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakePage) Goto(url string, _ ...playwright.PageGotoOptions) (playwright.Response, error) {
	f.record("goto %s", url)
	f.url = "http://localhost:3000" + url
	return nil, nil
}

func (f *fakePage) WaitForLoadState(opts ...playwright.PageWaitForLoadStateOptions) error {
	f.record("load %s", *opts[0].State)
	return nil
}

func (f *fakePage) WaitForSelector(sel string, opts ...playwright.PageWaitForSelectorOptions) (playwright.ElementHandle, error) {
	f.record("wait %s %s %v", sel, *opts[0].State, *opts[0].Timeout)
	return nil, f.waitErr[sel]
}

func (f *fakePage) WaitForTimeout(ms float64) {
	f.record("sleep %v", ms)
}

func (f *fakePage) URL() string { return f.url }

func (f *fakePage) Locator(sel string, opts ...playwright.PageLocatorOptions) playwright.Locator {
	if len(opts) > 0 && opts[0].HasText != nil {
		sel = fmt.Sprintf("%s[hasText=%v]", sel, opts[0].HasText)
	}
	return &fakeLocator{page: f, sel: sel}
}

type fakeLocator struct {
	playwright.Locator

	page *fakePage
	sel  string
}

func (l *fakeLocator) Click(...playwright.LocatorClickOptions) error {
	l.page.record("click %s", l.sel)
	return nil
}

func (l *fakeLocator) Fill(value string, _ ...playwright.LocatorFillOptions) error {
	l.page.record("fill %s %s", l.sel, value)
	return nil
}

func (l *fakeLocator) SelectOption(v playwright.SelectOptionValues, _ ...playwright.LocatorSelectOptionOptions) ([]string, error) {
	l.page.record("select %s %v", l.sel, *v.Values)
	return *v.Values, nil
}

func (l *fakeLocator) WaitFor(opts ...playwright.LocatorWaitForOptions) error {
	l.page.record("waitfor %s %s %v", l.sel, *opts[0].State, *opts[0].Timeout)
	return l.page.waitErr[l.sel]
}

func (l *fakeLocator) TextContent(...playwright.LocatorTextContentOptions) (string, error) {
	return l.page.texts[l.sel], nil
}

func (l *fakeLocator) Count() (int, error) {
	l.page.record("count %s", l.sel)
	return l.page.counts[l.sel], nil
}

func (l *fakeLocator) AllTextContents() ([]string, error) {
	return l.page.all[l.sel], nil
}

func TestHomePage_NavigateAndSelectRegion(t *testing.T) {
	fp := newFakePage()
	fp.texts["#current-region"] = "EU"
	home := NewHomePage(fp)

	require.NoError(t, home.Navigate())
	require.NoError(t, home.SelectRegion("eu"))
	require.NoError(t, home.GoToUsers())

	assert.Equal(t, []string{
		"goto /",
		"load networkidle",
		"select #region-select [eu]",
		"sleep 500",
		"click #nav-users",
		"load networkidle",
	}, fp.calls)

	region, err := home.CurrentRegionText()
	require.NoError(t, err)
	assert.Equal(t, "EU", region)
}

func TestLoginPage_Login(t *testing.T) {
	fp := newFakePage()
	fp.texts["#message"] = "Login successful! Welcome, jane_eu"
	login := NewLoginPage(fp)

	require.NoError(t, login.Login("jane_eu", "password123"))
	require.NoError(t, login.VerifyLoginSuccess("Login successful"))

	assert.Equal(t, []string{
		"fill #username jane_eu",
		"fill #password password123",
		"click #login-btn",
		"waitfor #message visible 5000",
	}, fp.calls)

	err := login.VerifyLoginFailure("Invalid credentials")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `does not contain "Invalid credentials"`)
}

func TestLoginPage_MessageNeverShown(t *testing.T) {
	fp := newFakePage()
	fp.waitErr["#message"] = errors.New("timeout")

	_, err := NewLoginPage(fp).MessageText()
	assert.ErrorContains(t, err, "login message")
}

func TestProductsPage_FilterByRegion(t *testing.T) {
	fp := newFakePage()
	fp.waitErr[".loading"] = errors.New("never attached")
	products := NewProductsPage(fp)

	require.NoError(t, products.FilterByRegion("asia"))

	assert.Equal(t, []string{
		"select #region-filter [asia]",
		"wait .loading attached 2000",
		"wait .loading detached 5000",
		"sleep 500",
	}, fp.calls)
}

func TestProductsPage_WaitForProductsToLoad(t *testing.T) {
	fp := newFakePage()
	require.NoError(t, NewProductsPage(fp).WaitForProductsToLoad())
	assert.Equal(t, []string{
		"wait .loading detached 10000",
		"wait .product-card visible 10000",
		"load networkidle",
		"sleep 200",
	}, fp.calls)

	fp = newFakePage()
	fp.waitErr[".product-card"] = errors.New("timeout")
	assert.ErrorContains(t, NewProductsPage(fp).WaitForProductsToLoad(), "wait for .product-card")
}

func TestProductsPage_Reads(t *testing.T) {
	fp := newFakePage()
	fp.counts[".product-card"] = 2
	fp.all[".product-name"] = []string{"Laptop", "Mouse"}
	products := NewProductsPage(fp)

	require.NoError(t, products.VerifyProductsCount(2))
	assert.ErrorContains(t, products.VerifyProductsCount(6), "expected 6 products, found 2")

	names, err := products.AllProductNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"Laptop", "Mouse"}, names)

	assert.Equal(t, ".product-name[hasText=Laptop]", products.ProductByName("Laptop").(*fakeLocator).sel)
}

func TestUsersPage(t *testing.T) {
	fp := newFakePage()
	fp.counts["tbody tr"] = 1
	fp.all["tbody tr td:nth-child(2)"] = []string{"bob_asia"}
	users := NewUsersPage(fp)

	require.NoError(t, users.FilterByRegion("asia"))
	require.NoError(t, users.WaitForUsersToLoad())
	require.NoError(t, users.VerifyUsersCount(1))

	names, err := users.AllUsernames()
	require.NoError(t, err)
	assert.Equal(t, []string{"bob_asia"}, names)

	assert.Equal(t, `tbody tr:has-text("bob_asia")`, users.UserByUsername("bob_asia").(*fakeLocator).sel)
	assert.Equal(t, []string{
		"select #region-filter [asia]",
		"sleep 1000",
		"wait tbody tr visible 10000",
		"count tbody tr",
	}, fp.calls)
}

func TestBasePage_Helpers(t *testing.T) {
	fp := newFakePage()
	base := NewBasePage(fp)

	require.NoError(t, base.Goto("/products"))
	assert.NoError(t, base.VerifyURLContains("products"))
	assert.ErrorContains(t, base.VerifyURLContains("login"), `does not contain "login"`)

	require.NoError(t, base.Click("#nav-home"))
	require.NoError(t, base.Fill(fp.Locator("#username"), "john_us"))
	assert.ErrorContains(t, base.Click(42), "cannot locate int")

	require.NoError(t, base.WaitForElement("#app-title"))
	assert.Contains(t, fp.calls, "wait #app-title visible 10000")
}
