package pages

import (
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

const (
	productCardSelector = ".product-card"
	productNameSelector = ".product-name"
	loadingSelector     = ".loading"
)

// ProductsPage is "/products": a region filter over product cards.
type ProductsPage struct {
	*BasePage

	ProductsTitle     playwright.Locator
	RegionFilter      playwright.Locator
	ProductsContainer playwright.Locator
	ProductCount      playwright.Locator
}

func NewProductsPage(page playwright.Page) *ProductsPage {
	return &ProductsPage{
		BasePage:          NewBasePage(page),
		ProductsTitle:     page.Locator("#products-title"),
		RegionFilter:      page.Locator("#region-filter"),
		ProductsContainer: page.Locator("#products-container"),
		ProductCount:      page.Locator("#product-count"),
	}
}

func (p *ProductsPage) Navigate() error {
	if err := p.Goto("/products"); err != nil {
		return err
	}
	return p.WaitForPageLoad()
}

// FilterByRegion selects region ("" for all) and waits out the loading
// indicator. The indicator may come and go before it is observed, so both
// waits are best effort.
func (p *ProductsPage) FilterByRegion(region string) error {
	if _, err := p.RegionFilter.SelectOption(playwright.SelectOptionValues{Values: &[]string{region}}); err != nil {
		return fmt.Errorf("pages: filter products by %q: %w", region, err)
	}
	_ = p.waitFor(loadingSelector, playwright.WaitForSelectorStateAttached, 2*time.Second)
	_ = p.waitFor(loadingSelector, playwright.WaitForSelectorStateDetached, 5*time.Second)
	p.Wait(500 * time.Millisecond)
	return nil
}

func (p *ProductsPage) ProductCards() playwright.Locator {
	return p.page.Locator(productCardSelector)
}

func (p *ProductsPage) ProductByName(name string) playwright.Locator {
	return p.page.Locator(productNameSelector, playwright.PageLocatorOptions{HasText: name})
}

func (p *ProductsPage) Count() (int, error) {
	return p.ProductCards().Count()
}

// CountText is the summary line, e.g. "Showing 2 products".
func (p *ProductsPage) CountText() (string, error) {
	return p.ProductCount.TextContent()
}

func (p *ProductsPage) VerifyProductDisplayed(name string) error {
	return p.expect.Locator(p.ProductByName(name)).ToBeVisible()
}

func (p *ProductsPage) VerifyProductsCount(want int) error {
	got, err := p.Count()
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("pages: expected %d products, found %d", want, got)
	}
	return nil
}

func (p *ProductsPage) AllProductNames() ([]string, error) {
	return p.page.Locator(productNameSelector).AllTextContents()
}

// FirstProductPrice is the price label of the first card, e.g. "999 USD".
func (p *ProductsPage) FirstProductPrice() (string, error) {
	return p.ProductCards().First().Locator(".product-price").TextContent()
}

// WaitForProductsToLoad returns once at least one card is visible.
func (p *ProductsPage) WaitForProductsToLoad() error {
	_ = p.waitFor(loadingSelector, playwright.WaitForSelectorStateDetached, DefaultTimeout)
	if err := p.waitFor(productCardSelector, playwright.WaitForSelectorStateVisible, DefaultTimeout); err != nil {
		return err
	}
	_ = p.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: playwright.Float(millis(5 * time.Second)),
	})
	p.Wait(200 * time.Millisecond)
	return nil
}
