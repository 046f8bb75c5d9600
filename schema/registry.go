package schema

import (
	"errors"
	"fmt"
	"sort"
)

// ErrDuplicatePath is returned by NewRegistry when two elements share a path.
var ErrDuplicatePath = errors.New("duplicate element path")

// Registry is the indexed, immutable form of a parsed schema. It is safe for
// concurrent use by any number of readers.
type Registry struct {
	namespace  string
	version    string
	root       *Element
	ordered    []*Element
	byPath     map[string]*Element
	byName     map[string][]*Element
	namedTypes map[string]*NamedType
}

// NewRegistry indexes the tree under root. Every element must already carry
// its final Path. A path seen twice fails with ErrDuplicatePath.
func NewRegistry(namespace, version string, root *Element, named []*NamedType) (*Registry, error) {
	if root == nil {
		return nil, errors.New("schema: nil root element")
	}
	r := &Registry{
		namespace:  namespace,
		version:    version,
		root:       root,
		byPath:     make(map[string]*Element),
		byName:     make(map[string][]*Element),
		namedTypes: make(map[string]*NamedType, len(named)),
	}
	if err := r.index(root); err != nil {
		return nil, err
	}
	for _, nt := range named {
		if nt == nil {
			continue
		}
		r.namedTypes[nt.Name] = nt
	}
	return r, nil
}

// index fills byPath pre-order and byName post-order. Name groups of leaf
// elements therefore follow document order.
func (r *Registry) index(e *Element) error {
	if _, dup := r.byPath[e.Path]; dup {
		return fmt.Errorf("schema: %w: %s", ErrDuplicatePath, e.Path)
	}
	r.byPath[e.Path] = e
	r.ordered = append(r.ordered, e)
	for _, c := range e.Children {
		if err := r.index(c); err != nil {
			return err
		}
	}
	r.byName[e.Name] = append(r.byName[e.Name], e)
	return nil
}

// Namespace returns the schema's target namespace.
func (r *Registry) Namespace() string { return r.namespace }

// Version returns the schema version, or "" when the schema has none.
func (r *Registry) Version() string { return r.version }

// Root returns the root element.
func (r *Registry) Root() *Element { return r.root }

// ElementByPath returns the element at the exact path.
func (r *Registry) ElementByPath(path string) (*Element, bool) {
	e, ok := r.byPath[path]
	return e, ok
}

// ElementsByName returns every element with the given leaf name, in the order
// they were indexed. The returned slice is a copy.
func (r *Registry) ElementsByName(name string) []*Element {
	es := r.byName[name]
	if len(es) == 0 {
		return nil
	}
	return append([]*Element(nil), es...)
}

// NamedType returns a named simple type.
func (r *Registry) NamedType(name string) (*NamedType, bool) {
	nt, ok := r.namedTypes[name]
	return nt, ok
}

// NamedTypeNames returns the names of all named simple types, sorted.
func (r *Registry) NamedTypeNames() []string {
	out := make([]string, 0, len(r.namedTypes))
	for n := range r.namedTypes {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Elements returns all elements in document (depth-first, pre-order) order.
func (r *Registry) Elements() []*Element { return append([]*Element(nil), r.ordered...) }

// Len returns the number of indexed elements.
func (r *Registry) Len() int { return len(r.ordered) }

// Walk calls fn for every element in document order until fn returns false.
func (r *Registry) Walk(fn func(*Element) bool) {
	for _, e := range r.ordered {
		if !fn(e) {
			return
		}
	}
}
