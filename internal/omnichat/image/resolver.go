// Package image turns inline image references into URLs the completion API
// accepts: remote URLs pass through, local files become JPEG data URIs.
package image

import (
	"encoding/base64"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// DataURIPrefix is prepended to every encoded local file. Local images are
// always labelled as JPEG whatever their actual format.
const DataURIPrefix = "data:image/jpeg;base64,"

var (
	// ErrNotFound reports a local image that does not exist.
	ErrNotFound = errors.New("image not found")
	// ErrIOFailure reports a local image that exists but could not be read.
	ErrIOFailure = errors.New("image read failed")
)

// ResolutionError is returned when a reference cannot be turned into a URL.
type ResolutionError struct {
	Ref  string // Reference as written by the user
	Path string // Normalized local path
	Kind error  // ErrNotFound or ErrIOFailure
	Err  error  // Underlying cause, nil for ErrNotFound
}

func (e *ResolutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: %s: %v", e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Path)
}

// Unwrap exposes both the kind and the cause to errors.Is.
func (e *ResolutionError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// Resolver resolves image references against a filesystem.
type Resolver struct {
	fs afero.Fs
}

// NewResolver creates a resolver reading local files from fs.
func NewResolver(fs afero.Fs) *Resolver {
	return &Resolver{fs: fs}
}

// NewOsResolver creates a resolver backed by the operating system filesystem.
func NewOsResolver() *Resolver {
	return NewResolver(afero.NewOsFs())
}

// IsRemote reports whether ref is an http(s) URL.
func IsRemote(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// NormalizePath converts both separator styles to the platform separator and
// cleans the result.
func NormalizePath(ref string) string {
	return filepath.Clean(filepath.FromSlash(strings.ReplaceAll(ref, `\`, "/")))
}

// Resolve returns a URL for ref. Remote URLs are returned unchanged without any
// I/O; local files are read once and encoded as a data URI.
func (r *Resolver) Resolve(ref string) (string, error) {
	if IsRemote(ref) {
		return ref, nil
	}

	path := NormalizePath(ref)
	exists, err := afero.Exists(r.fs, path)
	if err != nil {
		return "", &ResolutionError{Ref: ref, Path: path, Kind: ErrIOFailure, Err: err}
	}
	if !exists {
		return "", &ResolutionError{Ref: ref, Path: path, Kind: ErrNotFound}
	}

	data, err := afero.ReadFile(r.fs, path)
	if err != nil {
		return "", &ResolutionError{Ref: ref, Path: path, Kind: ErrIOFailure, Err: err}
	}

	return DataURIPrefix + base64.StdEncoding.EncodeToString(data), nil
}
