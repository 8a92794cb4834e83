package routes

import (
	"fmt"
	"net/http"
	"slices"
	"strings"
)

// View is a renderable unit mounted by a route.
type View interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

// ViewFunc adapts a function to the View interface.
type ViewFunc func(w http.ResponseWriter, r *http.Request) error

func (f ViewFunc) Render(w http.ResponseWriter, r *http.Request) error {
	return f(w, r)
}

// Descriptor maps a URL path to a named view.
type Descriptor struct {
	Path string
	Name string
	View View
}

// Table is an ordered, immutable list of descriptors anchored at a base path.
type Table struct {
	base    string
	entries []Descriptor
	byName  map[string]int
	byPath  map[string]int
}

// ConfigurationError lists the identifiers that break the table invariants.
type ConfigurationError struct {
	Paths   []string // paths declared more than once
	Names   []string // names declared more than once
	Invalid []string // malformed descriptors
}

func (e *ConfigurationError) Error() string {
	var parts []string
	if len(e.Paths) > 0 {
		parts = append(parts, "duplicate paths: "+strings.Join(e.Paths, ", "))
	}
	if len(e.Names) > 0 {
		parts = append(parts, "duplicate names: "+strings.Join(e.Names, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid routes: "+strings.Join(e.Invalid, ", "))
	}
	return "route table configuration: " + strings.Join(parts, "; ")
}

// NormalizeBase turns a configured base path into the prefix used for
// matching: "" for the domain root, otherwise "/x/y" without trailing slash.
func NormalizeBase(base string) string {
	base = strings.TrimSpace(base)
	base = strings.TrimRight(base, "/")
	if base == "" {
		return ""
	}
	if !strings.HasPrefix(base, "/") {
		base = "/" + base
	}
	return base
}

// New validates descriptors and builds a table anchored at base.
func New(base string, descriptors ...Descriptor) (*Table, error) {
	t := &Table{
		base:    NormalizeBase(base),
		entries: slices.Clone(descriptors),
		byName:  make(map[string]int, len(descriptors)),
		byPath:  make(map[string]int, len(descriptors)),
	}

	cfgErr := &ConfigurationError{}
	for i, d := range t.entries {
		if d.Name == "" || !strings.HasPrefix(d.Path, "/") || d.View == nil {
			cfgErr.Invalid = append(cfgErr.Invalid, fmt.Sprintf("#%d (name=%q path=%q)", i, d.Name, d.Path))
			continue
		}
		if _, dup := t.byPath[d.Path]; dup {
			if !slices.Contains(cfgErr.Paths, d.Path) {
				cfgErr.Paths = append(cfgErr.Paths, d.Path)
			}
		} else {
			t.byPath[d.Path] = i
		}
		if _, dup := t.byName[d.Name]; dup {
			if !slices.Contains(cfgErr.Names, d.Name) {
				cfgErr.Names = append(cfgErr.Names, d.Name)
			}
		} else {
			t.byName[d.Name] = i
		}
	}

	if len(cfgErr.Paths) > 0 || len(cfgErr.Names) > 0 || len(cfgErr.Invalid) > 0 {
		return nil, cfgErr
	}
	return t, nil
}

// MustNew is like New but panics on a configuration error.
func MustNew(base string, descriptors ...Descriptor) *Table {
	t, err := New(base, descriptors...)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Table) Base() string { return t.base }

func (t *Table) Len() int { return len(t.entries) }

// Entries returns a copy of the descriptors in declaration order.
func (t *Table) Entries() []Descriptor {
	return slices.Clone(t.entries)
}

func (t *Table) ByName(name string) (Descriptor, bool) {
	i, ok := t.byName[name]
	if !ok {
		return Descriptor{}, false
	}
	return t.entries[i], true
}

func (t *Table) ByPath(path string) (Descriptor, bool) {
	i, ok := t.byPath[path]
	if !ok {
		return Descriptor{}, false
	}
	return t.entries[i], true
}

// Match resolves a request path, base path included, to a descriptor.
// A single trailing slash is ignored.
func (t *Table) Match(requestPath string) (Descriptor, bool) {
	rest := requestPath
	if t.base != "" {
		if rest != t.base && !strings.HasPrefix(rest, t.base+"/") {
			return Descriptor{}, false
		}
		rest = strings.TrimPrefix(rest, t.base)
	}
	if len(rest) > 1 {
		rest = strings.TrimSuffix(rest, "/")
	}
	if rest == "" {
		rest = "/"
	}
	return t.ByPath(rest)
}

// URL returns the absolute path of the named route, or "" if unknown.
func (t *Table) URL(name string) string {
	d, ok := t.ByName(name)
	if !ok {
		return ""
	}
	return t.Path(d.Path)
}

// Path anchors a table-relative path at the base path.
func (t *Table) Path(p string) string {
	if t.base == "" {
		return p
	}
	if p == "/" {
		return t.base + "/"
	}
	return t.base + p
}
