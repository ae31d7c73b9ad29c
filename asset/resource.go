// Package asset loads meshes from local or remote resources and persists
// generated HLOD meshes.
package asset

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

var (
	ErrUnsupportedScheme = errors.New("resource: unsupported scheme")
	ErrFetchFailed       = errors.New("resource: could not fetch")
)

// Resource is a readable stream backed by a local file or an http(s) URL.
type Resource struct {
	io.ReadCloser
	url *url.URL
}

// Path returns the location of the resource.
func (r *Resource) Path() string {
	return r.url.String()
}

// Name returns the base name of the resource without its extension. It is
// used for naming the objects created from the resource.
func (r *Resource) Name() string {
	base := path.Base(r.url.Path)
	return strings.TrimSuffix(base, path.Ext(base))
}

// Ext returns the lower-cased extension of the resource path.
func (r *Resource) Ext() string {
	return strings.ToLower(path.Ext(r.url.Path))
}

// IsRemote returns true if the resource is streamed over http(s).
func (r *Resource) IsRemote() bool {
	return r.url.Scheme != ""
}

// NewResource opens a resource. Paths without a scheme are resolved against
// relTo when it is specified.
//
// The caller must close the returned resource.
func NewResource(pathToResource string, relTo *Resource) (*Resource, error) {
	loc, err := url.Parse(strings.ReplaceAll(pathToResource, `\`, `/`))
	if err != nil {
		return nil, err
	}

	if loc.Scheme == "" && relTo != nil {
		rel := loc.Path
		loc, _ = url.Parse(relTo.url.String())
		prefix := loc.Path
		if loc.Scheme == "" {
			if prefix, err = filepath.Abs(relTo.url.String()); err != nil {
				return nil, fmt.Errorf("resource: could not detect abs path for %s: %w", relTo.url.String(), err)
			}
		}
		loc.Path = path.Join(filepath.ToSlash(filepath.Dir(prefix)), rel)
	}

	var reader io.ReadCloser
	switch loc.Scheme {
	case "":
		if reader, err = os.Open(filepath.Clean(loc.Path)); err != nil {
			return nil, err
		}
	case "http", "https":
		resp, err := http.Get(loc.String())
		if err != nil {
			return nil, fmt.Errorf("%w '%s': %s", ErrFetchFailed, loc.String(), err)
		}
		if resp.StatusCode >= 400 {
			resp.Body.Close()
			return nil, fmt.Errorf("%w '%s': status %d", ErrFetchFailed, loc.String(), resp.StatusCode)
		}
		reader = resp.Body
	default:
		return nil, fmt.Errorf("%w '%s'", ErrUnsupportedScheme, loc.Scheme)
	}

	return &Resource{ReadCloser: reader, url: loc}, nil
}

// NewResourceFromStream wraps a reader as a resource.
func NewResourceFromStream(name string, source io.Reader) *Resource {
	loc, err := url.Parse(name)
	if err != nil {
		loc = &url.URL{Path: name}
	}
	return &Resource{ReadCloser: io.NopCloser(source), url: loc}
}
