package xsdimport

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/reoring/ilrskema/schema"
)

// Build compiles XSD text into a registry.
func Build(text []byte, opts Options) (*schema.Registry, Diag, error) {
	d := &simpleDiag{}
	doc, err := readXSD(text, d)
	if err != nil {
		return nil, d, err
	}
	return build(doc, opts, d)
}

// BuildYAML compiles a YAML schema descriptor into a registry.
func BuildYAML(data []byte, opts Options) (*schema.Registry, Diag, error) {
	d := &simpleDiag{}
	desc, err := readYAMLDescriptor(data)
	if err != nil {
		return nil, d, err
	}
	if opts.Root == "" {
		opts.Root = desc.Root
	}
	return build(desc.toDocument(), opts, d)
}

// BuildJSON compiles a JSON schema descriptor into a registry.
func BuildJSON(data []byte, opts Options) (*schema.Registry, Diag, error) {
	d := &simpleDiag{}
	desc, err := readJSONDescriptor(data)
	if err != nil {
		return nil, d, err
	}
	if opts.Root == "" {
		opts.Root = desc.Root
	}
	return build(desc.toDocument(), opts, d)
}

// BuildFile reads a schema description from disk and picks the front-end by
// extension: .yaml/.yml and .json are descriptors, anything else is XSD.
func BuildFile(path string, opts Options) (*schema.Registry, Diag, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &simpleDiag{}, fmt.Errorf("xsdimport: read %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return BuildYAML(data, opts)
	case ".json":
		return BuildJSON(data, opts)
	default:
		return Build(data, opts)
	}
}

func build(doc *document, opts Options, d *simpleDiag) (*schema.Registry, Diag, error) {
	log := opts.logger()
	b, err := newBuilder(doc, d)
	if err != nil {
		return nil, d, err
	}
	// Pass 1: every named simple type, so references may point anywhere.
	named, err := b.resolveAllNamed()
	if err != nil {
		return nil, d, err
	}
	// Pass 2: the element tree below the chosen root.
	rootDecl, err := b.pickRoot(opts.Root)
	if err != nil {
		return nil, d, err
	}
	root, err := b.element(rootDecl, "", nil)
	if err != nil {
		return nil, d, err
	}
	reg, err := schema.NewRegistry(doc.namespace, doc.version, root, named)
	if err != nil {
		if errors.Is(err, schema.ErrDuplicatePath) {
			return nil, d, wrapErr(ErrDuplicatePath, "", "", err)
		}
		return nil, d, wrapErr(ErrMalformed, "", "", err)
	}
	for _, w := range d.ws {
		log.Debug("schema import warning", "warning", w)
	}
	log.Debug("schema imported",
		"namespace", reg.Namespace(),
		"root", root.Name,
		"elements", reg.Len(),
		"named_types", len(named))
	return reg, d, nil
}

type builder struct {
	doc      *document
	d        *simpleDiag
	simple   map[string]*simpleTypeDecl
	complex  map[string]*complexTypeDecl
	globals  map[string]*elementDecl
	resolved map[string]*schema.NamedType
	visiting map[string]bool
}

func newBuilder(doc *document, d *simpleDiag) (*builder, error) {
	b := &builder{
		doc:      doc,
		d:        d,
		simple:   make(map[string]*simpleTypeDecl, len(doc.simpleTypes)),
		complex:  make(map[string]*complexTypeDecl, len(doc.complexTypes)),
		globals:  make(map[string]*elementDecl, len(doc.elements)),
		resolved: make(map[string]*schema.NamedType, len(doc.simpleTypes)),
		visiting: make(map[string]bool),
	}
	for _, st := range doc.simpleTypes {
		if st.name == "" {
			return nil, parseErr(ErrMalformed, "", "named type without name")
		}
		if _, dup := b.simple[st.name]; dup {
			return nil, parseErr(ErrMalformed, st.name, "simple type declared twice")
		}
		b.simple[st.name] = st
	}
	for _, ct := range doc.complexTypes {
		if _, dup := b.complex[ct.name]; dup {
			return nil, parseErr(ErrMalformed, ct.name, "complex type declared twice")
		}
		if _, clash := b.simple[ct.name]; clash {
			return nil, parseErr(ErrMalformed, ct.name, "name used by both a simple and a complex type")
		}
		b.complex[ct.name] = ct
	}
	for _, el := range doc.elements {
		if _, dup := b.globals[el.name]; dup {
			return nil, parseErr(ErrMalformed, el.name, "top-level element declared twice")
		}
		b.globals[el.name] = el
	}
	return b, nil
}

func (b *builder) resolveAllNamed() ([]*schema.NamedType, error) {
	out := make([]*schema.NamedType, 0, len(b.doc.simpleTypes))
	for _, st := range b.doc.simpleTypes {
		nt, err := b.named(st.name)
		if err != nil {
			return nil, err
		}
		out = append(out, nt)
	}
	return out, nil
}

// named resolves a named simple type, following its restriction chain.
func (b *builder) named(name string) (*schema.NamedType, error) {
	if nt, ok := b.resolved[name]; ok {
		return nt, nil
	}
	st, ok := b.simple[name]
	if !ok {
		return nil, parseErr(ErrUnresolvedType, name, "no simple type with this name")
	}
	if b.visiting[name] {
		return nil, parseErr(ErrCyclicType, name, "restriction chain refers back to itself")
	}
	b.visiting[name] = true
	defer delete(b.visiting, name)

	bt, c, err := b.restriction(st, name)
	if err != nil {
		return nil, err
	}
	nt := &schema.NamedType{Name: name, BaseType: bt, Constraints: c, Documentation: st.doc}
	b.resolved[name] = nt
	return nt, nil
}

// restriction resolves the base of st and layers st's facets over it.
func (b *builder) restriction(st *simpleTypeDecl, owner string) (schema.BaseType, schema.Constraints, error) {
	var (
		bt   schema.BaseType
		base schema.Constraints
	)
	if st.base.builtin {
		bt, base = builtinConstraints(st.base.local, b.d)
	} else {
		parent, err := b.named(st.base.local)
		if err != nil {
			return "", schema.Constraints{}, err
		}
		bt, base = parent.BaseType, parent.Constraints
	}
	c, err := applyFacets(base, st.facets, bt, owner, b.d)
	if err != nil {
		return "", schema.Constraints{}, err
	}
	return bt, c, nil
}

func (b *builder) pickRoot(name string) (*elementDecl, error) {
	if len(b.doc.elements) == 0 {
		return nil, parseErr(ErrMalformed, "", "no top-level element")
	}
	if name == "" {
		return b.doc.elements[0], nil
	}
	el, ok := b.globals[name]
	if !ok {
		return nil, parseErr(ErrMalformed, name, "root element not declared at top level")
	}
	return el, nil
}

// element builds the schema element for decl below parentPath. stack holds
// the element refs and complex types currently being expanded.
func (b *builder) element(decl *elementDecl, parentPath string, stack []string) (*schema.Element, error) {
	content := decl
	if decl.ref != nil {
		g, ok := b.globals[decl.ref.local]
		if !ok {
			return nil, parseErr(ErrUnresolvedType, joinPath(parentPath, decl.name), "ref to undeclared element "+decl.ref.String())
		}
		key := "element " + g.name
		if onStack(stack, key) {
			return nil, parseErr(ErrCyclicType, joinPath(parentPath, decl.name), "element ref cycle through "+g.name)
		}
		stack = append(stack, key)
		content = g
	}

	path := joinPath(parentPath, content.name)
	card, err := cardinality(decl, path)
	if err != nil {
		return nil, err
	}
	el := &schema.Element{Name: content.name, Path: path, Cardinality: card, Documentation: content.doc}

	switch {
	case content.complex != nil:
		err = b.complexContent(el, content.complex, stack)
	case content.simple != nil:
		el.BaseType, el.Constraints, err = b.restriction(content.simple, path)
	case content.typ != nil:
		err = b.typed(el, *content.typ, stack)
	default:
		b.d.warnf("%s: element has no type; treated as string", path)
		el.BaseType = schema.TypeString
	}
	if err != nil {
		return nil, err
	}
	return el, nil
}

// typed fills el from a type attribute.
func (b *builder) typed(el *schema.Element, q qname, stack []string) error {
	if q.builtin {
		el.BaseType, el.Constraints = builtinConstraints(q.local, b.d)
		return nil
	}
	if _, ok := b.simple[q.local]; ok {
		nt, err := b.named(q.local)
		if err != nil {
			return err
		}
		el.BaseType, el.Constraints, el.TypeName = nt.BaseType, nt.Constraints, nt.Name
		return nil
	}
	if ct, ok := b.complex[q.local]; ok {
		return b.complexContent(el, ct, stack)
	}
	return parseErr(ErrUnresolvedType, el.Path, "type "+q.String()+" is not declared")
}

func (b *builder) complexContent(el *schema.Element, ct *complexTypeDecl, stack []string) error {
	if ct.name != "" {
		key := "complexType " + ct.name
		if onStack(stack, key) {
			return parseErr(ErrCyclicType, el.Path, "complex type "+ct.name+" contains itself")
		}
		stack = append(stack, key)
	}
	if ct.simpleBase != nil {
		if err := b.typed(el, *ct.simpleBase, stack); err != nil {
			return err
		}
		if ct.simpleFacets.empty() {
			return nil
		}
		c, err := applyFacets(el.Constraints, ct.simpleFacets, el.BaseType, el.Path, b.d)
		if err != nil {
			return err
		}
		el.Constraints = c
		return nil
	}
	if ct.base != nil {
		if ct.base.builtin {
			b.d.warnf("%s: extension of builtin %s treated as its simple content", el.Path, ct.base)
			return b.typed(el, *ct.base, stack)
		}
		base, ok := b.complex[ct.base.local]
		if !ok {
			return parseErr(ErrUnresolvedType, el.Path, "extension base "+ct.base.String()+" is not a complex type")
		}
		if err := b.complexContent(el, base, stack); err != nil {
			return err
		}
	}
	for _, p := range ct.particles {
		child, err := b.element(p, el.Path, stack)
		if err != nil {
			return err
		}
		el.Children = append(el.Children, child)
	}
	if len(el.Children) == 0 && el.BaseType == "" {
		b.d.warnf("%s: complex type without element content; treated as string", el.Path)
		el.BaseType = schema.TypeString
	}
	if len(el.Children) > 0 {
		el.BaseType = ""
		el.Constraints = schema.Constraints{}
	}
	if el.Documentation == "" {
		el.Documentation = ct.doc
	}
	return nil
}

// cardinality applies the occurrence attributes, defaulting to exactly one.
func cardinality(decl *elementDecl, path string) (schema.Cardinality, error) {
	c := schema.DefaultCardinality
	if decl.minOccurs != "" {
		v := strings.TrimSpace(decl.minOccurs)
		if v == "unbounded" {
			return c, parseErr(ErrMalformed, path, "minOccurs cannot be unbounded")
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return c, parseErr(ErrMalformed, path, fmt.Sprintf("invalid minOccurs %q", decl.minOccurs))
		}
		c.Min = n
	}
	if decl.maxOccurs != "" {
		v := strings.TrimSpace(decl.maxOccurs)
		if v == "unbounded" {
			c.Max = schema.Unbounded
		} else {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return c, parseErr(ErrMalformed, path, fmt.Sprintf("invalid maxOccurs %q", decl.maxOccurs))
			}
			c.Max = schema.OccursOf(n)
		}
	}
	if !c.Max.Allows(c.Min) {
		return c, parseErr(ErrMalformed, path, fmt.Sprintf("minOccurs %d exceeds maxOccurs %s", c.Min, c.Max))
	}
	if decl.optional {
		c.Min = 0
	}
	return c, nil
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}

func onStack(stack []string, key string) bool {
	for _, s := range stack {
		if s == key {
			return true
		}
	}
	return false
}
