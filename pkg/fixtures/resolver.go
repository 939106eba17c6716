// Package fixtures resolves region-scoped test data.
//
// Every fixture lives at a fixed place relative to the working directory:
//
//	test-data/<app>/<region>/<file>
//
// A test names the app and file, and optionally a region. When the region is
// omitted the Resolver asks its RegionSource, so the same test can run against
// us, eu or asia data by changing REGION in the environment:
//
//	r := fixtures.FromEnv()
//	doc, err := r.Resolve("app2-api", "users.json")        // REGION / DEFAULT_REGION / "us"
//	doc, err = r.Resolve("app2-api", "users.json", "asia") // explicit region
//
// Nothing is cached: every call reads the file again.
package fixtures

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shashiranjanraj/e2esuite/config"
	"github.com/shashiranjanraj/e2esuite/pkg/logger"
)

// Root is the fixture tree's directory name, relative to the working directory.
const Root = "test-data"

// Region names a deployment region. Any non-empty string is accepted as a
// path segment unless the Resolver is strict.
type Region string

const (
	US   Region = "us"
	EU   Region = "eu"
	Asia Region = "asia"
)

var knownRegions = []Region{US, EU, Asia}

// Regions returns the known regions in their canonical order.
func Regions() []Region {
	out := make([]Region, len(knownRegions))
	copy(out, knownRegions)
	return out
}

// Known reports whether r is one of US, EU or Asia.
func (r Region) Known() bool {
	for _, k := range knownRegions {
		if r == k {
			return true
		}
	}
	return false
}

// Document is a decoded fixture. The top level is always a JSON object.
type Document map[string]any

// Key identifies one fixture after region defaulting.
type Key struct {
	App    string
	Region string
	File   string
}

func (k Key) String() string {
	return k.App + "/" + k.Region + "/" + k.File
}

// RegionSource supplies the region used when a call does not name one.
type RegionSource interface {
	DefaultRegion() string
}

// StaticRegion is a RegionSource that always answers with itself.
type StaticRegion string

func (s StaticRegion) DefaultRegion() string { return string(s) }

// RegionFunc adapts a plain function to RegionSource.
type RegionFunc func() string

func (f RegionFunc) DefaultRegion() string { return f() }

// Resolver maps (app, region, file) to a parsed fixture. It holds no mutable
// state and is safe for concurrent use.
type Resolver struct {
	regions RegionSource
	workDir string
	strict  bool
	log     *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithRegionSource sets where the default region comes from.
func WithRegionSource(src RegionSource) Option {
	return func(r *Resolver) { r.regions = src }
}

// WithWorkDir anchors the fixture tree at dir instead of the process working
// directory.
func WithWorkDir(dir string) Option {
	return func(r *Resolver) { r.workDir = dir }
}

// WithStrictRegions rejects regions other than us, eu and asia.
func WithStrictRegions() Option {
	return func(r *Resolver) { r.strict = true }
}

// WithLogger replaces the package logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) { r.log = l }
}

// New builds a Resolver. Without options it defaults to region "us" and the
// process working directory.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		regions: StaticRegion(US),
		log:     logger.L,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FromEnv builds a Resolver whose default region is read from the
// environment on every call (REGION, then DEFAULT_REGION, then "us").
func FromEnv(opts ...Option) *Resolver {
	return New(append([]Option{WithRegionSource(RegionFunc(config.Region))}, opts...)...)
}

// Resolve reads and decodes test-data/<app>/<region>/<file>. Only the first
// region argument is used; an empty or missing one means the default region.
func (r *Resolver) Resolve(app, file string, region ...string) (Document, error) {
	key, path, err := r.locate(app, file, region)
	if err != nil {
		return nil, err
	}
	data, err := r.read(key, path)
	if err != nil {
		return nil, err
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			err = fmt.Errorf("top-level value is a JSON %s, not an object", typeErr.Value)
		}
		return nil, &DecodeError{Key: key, Path: path, Err: err}
	}
	if doc == nil {
		return nil, &DecodeError{Key: key, Path: path, Err: errors.New("top-level value is null, not an object")}
	}
	return doc, nil
}

// ResolveAllRegions resolves the same file for us, eu and asia. It fails as a
// whole on the first region that fails; no partial map is returned.
func (r *Resolver) ResolveAllRegions(app, file string) (map[Region]Document, error) {
	out := make(map[Region]Document, len(knownRegions))
	for _, region := range knownRegions {
		doc, err := r.Resolve(app, file, string(region))
		if err != nil {
			return nil, err
		}
		out[region] = doc
	}
	return out, nil
}

// Exists reports whether the resolved path is present. It never fails; a
// strict Resolver reports false for unknown regions.
func (r *Resolver) Exists(app, file string, region ...string) bool {
	_, path, err := r.locate(app, file, region)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Path returns the absolute path a Resolve call with the same arguments would
// read, without touching the file.
func (r *Resolver) Path(app, file string, region ...string) string {
	return r.path(r.key(app, file, region))
}

func (r *Resolver) key(app, file string, region []string) Key {
	eff := ""
	if len(region) > 0 {
		eff = region[0]
	}
	if eff == "" && r.regions != nil {
		eff = r.regions.DefaultRegion()
	}
	if eff == "" {
		eff = string(US)
	}
	return Key{App: app, Region: eff, File: file}
}

func (r *Resolver) path(k Key) string {
	base := r.workDir
	if base == "" {
		if wd, err := os.Getwd(); err == nil {
			base = wd
		}
	}
	p := filepath.Join(base, Root, k.App, k.Region, k.File)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

func (r *Resolver) locate(app, file string, region []string) (Key, string, error) {
	key := r.key(app, file, region)
	if r.strict && !Region(key.Region).Known() {
		return key, "", &InvalidRegionError{Region: key.Region}
	}
	return key, r.path(key), nil
}

func (r *Resolver) read(key Key, path string) ([]byte, error) {
	r.log.Debug("fixtures: resolving", "app", key.App, "region", key.Region, "file", key.File, "path", path)

	if _, err := os.Stat(path); err != nil {
		return nil, &NotFoundError{Key: key, Path: path, Err: err}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fixtures: read %s: %w", key, err)
	}
	return data, nil
}
