package runner

import (
	"context"
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/shashiranjanraj/e2esuite/pkg/logger"
)

// Session is a running playwright driver with one browser.
type Session struct {
	PW      *playwright.Playwright
	Browser playwright.Browser
	use     Use
}

// Launch starts playwright and opens the project's browser, either locally
// or by connecting to its WSEndpoint. p should come from Config.Project so
// the shared settings are merged in.
func Launch(ctx context.Context, p Project) (*Session, error) {
	if !p.UsesBrowser() {
		return nil, fmt.Errorf("runner: project %q does not use a browser", p.Name)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("runner: start playwright: %w", err)
	}

	bt := browserType(pw, p.Browser)
	var browser playwright.Browser
	if p.Use.WSEndpoint != "" {
		logger.Info("connecting to remote browser", "project", p.Name, "browser", p.Browser)
		browser, err = bt.Connect(p.Use.WSEndpoint)
	} else {
		browser, err = bt.Launch(playwright.BrowserTypeLaunchOptions{
			Headless: playwright.Bool(p.Use.Headless),
		})
	}
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("runner: open %s for %q: %w", p.Browser, p.Name, err)
	}

	return &Session{PW: pw, Browser: browser, use: p.Use}, nil
}

// NewPage opens a page in a fresh context configured from the project: base
// URL, extra headers, device emulation and viewport.
func (s *Session) NewPage() (playwright.Page, error) {
	bctx, err := s.Browser.NewContext(contextOptions(s.use, s.PW.Devices[s.use.Device]))
	if err != nil {
		return nil, fmt.Errorf("runner: new browser context: %w", err)
	}
	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		return nil, fmt.Errorf("runner: new page: %w", err)
	}
	return page, nil
}

func (s *Session) Close() error {
	berr := s.Browser.Close()
	if err := s.PW.Stop(); err != nil {
		return err
	}
	return berr
}

func contextOptions(use Use, device *playwright.DeviceDescriptor) playwright.BrowserNewContextOptions {
	opts := playwright.BrowserNewContextOptions{
		ExtraHttpHeaders: use.ExtraHTTPHeaders,
	}
	if use.BaseURL != "" {
		opts.BaseURL = playwright.String(use.BaseURL)
	}
	if device != nil {
		opts.UserAgent = playwright.String(device.UserAgent)
		opts.Viewport = device.Viewport
		opts.DeviceScaleFactor = playwright.Float(device.DeviceScaleFactor)
		opts.IsMobile = playwright.Bool(device.IsMobile)
		opts.HasTouch = playwright.Bool(device.HasTouch)
	}
	if use.Viewport != nil {
		opts.Viewport = &playwright.Size{Width: use.Viewport.Width, Height: use.Viewport.Height}
	}
	return opts
}

func browserType(pw *playwright.Playwright, name string) playwright.BrowserType {
	switch name {
	case Firefox:
		return pw.Firefox
	case WebKit:
		return pw.WebKit
	default:
		return pw.Chromium
	}
}
