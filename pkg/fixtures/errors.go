package fixtures

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels for errors.Is. Each typed error below matches exactly one.
var (
	ErrNotFound      = errors.New("fixtures: not found")
	ErrDecode        = errors.New("fixtures: invalid JSON")
	ErrSchema        = errors.New("fixtures: schema mismatch")
	ErrInvalidRegion = errors.New("fixtures: invalid region")
)

// NotFoundError reports a resolved path with nothing on disk.
type NotFoundError struct {
	Key  Key
	Path string
	Err  error // the stat failure, usually fs.ErrNotExist
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Test data file not found: %s\nApp: %s, Region: %s, File: %s",
		e.Path, e.Key.App, e.Key.Region, e.Key.File)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func (e *NotFoundError) Unwrap() error { return e.Err }

// DecodeError reports a fixture whose bytes are not a JSON object. The
// parser's message is kept verbatim.
type DecodeError struct {
	Key  Key
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("Test data file is not valid JSON: %s\nApp: %s, Region: %s, File: %s\n%v",
		e.Path, e.Key.App, e.Key.Region, e.Key.File, e.Err)
}

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

func (e *DecodeError) Unwrap() error { return e.Err }

// SchemaError reports well-formed JSON that does not fit the shape a caller
// asked for with Load.
type SchemaError struct {
	Key  Key
	Path string
	Type string
	Err  error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("Test data file does not match %s: %s\nApp: %s, Region: %s, File: %s\n%v",
		e.Type, e.Path, e.Key.App, e.Key.Region, e.Key.File, e.Err)
}

func (e *SchemaError) Is(target error) bool { return target == ErrSchema }

func (e *SchemaError) Unwrap() error { return e.Err }

// InvalidRegionError is only returned by resolvers built WithStrictRegions.
type InvalidRegionError struct {
	Region string
}

func (e *InvalidRegionError) Error() string {
	names := make([]string, 0, len(knownRegions))
	for _, r := range knownRegions {
		names = append(names, string(r))
	}
	return fmt.Sprintf("invalid region %q: expected one of %s", e.Region, strings.Join(names, ", "))
}

func (e *InvalidRegionError) Is(target error) bool { return target == ErrInvalidRegion }
