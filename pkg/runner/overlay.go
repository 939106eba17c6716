package runner

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// DefaultOverlay is the optional per-checkout settings file.
const DefaultOverlay = "e2e.toml"

// overlay mirrors the tunable part of Config with pointers so absent keys
// leave the base value alone.
type overlay struct {
	Timeout       *Duration  `toml:"timeout"`
	FullyParallel *bool      `toml:"fully_parallel"`
	ForbidOnly    *bool      `toml:"forbid_only"`
	Retries       *int       `toml:"retries"`
	Workers       *int       `toml:"workers"`
	Reporters     []Reporter `toml:"reporters"`
	Use           struct {
		BaseURL          *string           `toml:"base_url"`
		Headless         *bool             `toml:"headless"`
		Trace            *string           `toml:"trace"`
		Screenshot       *string           `toml:"screenshot"`
		Video            *string           `toml:"video"`
		ExtraHTTPHeaders map[string]string `toml:"extra_http_headers"`
	} `toml:"use"`
	// Projects keeps only the named projects, in this order.
	Projects  []string `toml:"projects"`
	WebServer struct {
		Port          *string   `toml:"port"`
		Timeout       *Duration `toml:"timeout"`
		ReuseExisting *bool     `toml:"reuse_existing"`
	} `toml:"web_server"`
}

// Overlay applies the TOML file at path to cfg. A missing file is not an
// error. Example:
//
//	workers = 2
//	retries = 1
//	projects = ["app2-api"]
//
//	[use]
//	base_url = "http://staging.internal:3000"
//	headless = true
func Overlay(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("runner: read %s: %w", path, err)
	}

	var o overlay
	if err := toml.Unmarshal(data, &o); err != nil {
		return fmt.Errorf("runner: parse %s: %w", path, err)
	}
	if err := o.apply(cfg); err != nil {
		return fmt.Errorf("runner: %s: %w", path, err)
	}
	return cfg.Validate()
}

func (o overlay) apply(cfg *Config) error {
	if o.Timeout != nil {
		cfg.Timeout = *o.Timeout
	}
	if o.FullyParallel != nil {
		cfg.FullyParallel = *o.FullyParallel
	}
	if o.ForbidOnly != nil {
		cfg.ForbidOnly = *o.ForbidOnly
	}
	if o.Retries != nil {
		cfg.Retries = *o.Retries
	}
	if o.Workers != nil {
		cfg.Workers = *o.Workers
	}
	if o.Reporters != nil {
		cfg.Reporters = o.Reporters
	}

	u := o.Use
	if u.BaseURL != nil {
		cfg.Use.BaseURL = *u.BaseURL
	}
	if u.Headless != nil {
		cfg.Use.Headless = *u.Headless
	}
	if u.Trace != nil {
		cfg.Use.Trace = *u.Trace
	}
	if u.Screenshot != nil {
		cfg.Use.Screenshot = *u.Screenshot
	}
	if u.Video != nil {
		cfg.Use.Video = *u.Video
	}
	if len(u.ExtraHTTPHeaders) > 0 {
		cfg.Use.ExtraHTTPHeaders = mergeUse(cfg.Use, Use{ExtraHTTPHeaders: u.ExtraHTTPHeaders}).ExtraHTTPHeaders
	}

	if len(o.Projects) > 0 {
		keep := make([]Project, 0, len(o.Projects))
		for _, name := range o.Projects {
			i := indexOf(cfg.Projects, name)
			if i < 0 {
				return fmt.Errorf("%w %q", ErrUnknownProject, name)
			}
			keep = append(keep, cfg.Projects[i])
		}
		cfg.Projects = keep
	}

	if ws := cfg.WebServer; ws != nil {
		if o.WebServer.Port != nil {
			ws.Port = *o.WebServer.Port
		}
		if o.WebServer.Timeout != nil {
			ws.Timeout = *o.WebServer.Timeout
		}
		if o.WebServer.ReuseExisting != nil {
			ws.ReuseExisting = *o.WebServer.ReuseExisting
		}
	}
	return nil
}

func indexOf(projects []Project, name string) int {
	for i, p := range projects {
		if p.Name == name {
			return i
		}
	}
	return -1
}
