package xsdimport

// Declarations as read from either front-end (XSD or descriptor), before
// named types are resolved and paths are assigned.

type qname struct {
	local   string
	builtin bool // bound to the XML Schema namespace
}

func (q qname) String() string {
	if q.builtin {
		return "xs:" + q.local
	}
	return q.local
}

type document struct {
	namespace    string
	version      string
	simpleTypes  []*simpleTypeDecl
	complexTypes []*complexTypeDecl
	elements     []*elementDecl
}

// Facet names shared by both front-ends.
const (
	facetLength         = "length"
	facetMinLength      = "minLength"
	facetMaxLength      = "maxLength"
	facetMinInclusive   = "minInclusive"
	facetMaxInclusive   = "maxInclusive"
	facetMinExclusive   = "minExclusive"
	facetMaxExclusive   = "maxExclusive"
	facetTotalDigits    = "totalDigits"
	facetFractionDigits = "fractionDigits"
)

type facetDecl struct {
	values      map[string]string // single-valued facets keyed by facet name
	patterns    []string          // alternatives within one restriction step
	enumeration []string
}

func (f *facetDecl) set(name, v string) {
	if f.values == nil {
		f.values = make(map[string]string)
	}
	f.values[name] = v
}

func (f facetDecl) empty() bool {
	return len(f.values) == 0 && len(f.patterns) == 0 && len(f.enumeration) == 0
}

type simpleTypeDecl struct {
	name   string // empty for inline types
	base   qname
	facets facetDecl
	doc    string
}

type complexTypeDecl struct {
	name         string    // empty for inline types
	base         *qname    // complexContent extension base
	simpleBase   *qname    // simpleContent base; the element is simple
	simpleFacets facetDecl // facets of a simpleContent restriction
	particles    []*elementDecl
	doc          string
}

type elementDecl struct {
	name      string
	ref       *qname
	typ       *qname
	minOccurs string // empty when absent
	maxOccurs string
	optional  bool // member of a choice or of an optional group
	simple    *simpleTypeDecl
	complex   *complexTypeDecl
	doc       string
}
