package xsdimport

import (
	"bytes"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// The descriptor is a YAML/JSON rendition of the same model the XSD
// front-end reads:
//
//	namespace: ESFA/ILR/2025-26
//	version: "1.0"
//	root: Message
//	types:
//	  - name: ULNType
//	    base: long
//	    minInclusive: 1000000000
//	elements:
//	  - name: Message
//	    children:
//	      - name: ULN
//	        type: ULNType
//	        minOccurs: 0
type descriptor struct {
	Namespace string              `yaml:"namespace" json:"namespace"`
	Version   lexical             `yaml:"version" json:"version"`
	Root      string              `yaml:"root" json:"root"`
	Types     []typeDescriptor    `yaml:"types" json:"types"`
	Elements  []elementDescriptor `yaml:"elements" json:"elements"`
}

type facetDescriptor struct {
	Pattern        string   `yaml:"pattern" json:"pattern"`
	Patterns       []string `yaml:"patterns" json:"patterns"`
	Length         *lexical `yaml:"length" json:"length"`
	MinLength      *lexical `yaml:"minLength" json:"minLength"`
	MaxLength      *lexical `yaml:"maxLength" json:"maxLength"`
	MinInclusive   *lexical `yaml:"minInclusive" json:"minInclusive"`
	MaxInclusive   *lexical `yaml:"maxInclusive" json:"maxInclusive"`
	MinExclusive   *lexical `yaml:"minExclusive" json:"minExclusive"`
	MaxExclusive   *lexical `yaml:"maxExclusive" json:"maxExclusive"`
	TotalDigits    *lexical `yaml:"totalDigits" json:"totalDigits"`
	FractionDigits *lexical `yaml:"fractionDigits" json:"fractionDigits"`
	Enumeration    []string `yaml:"enumeration" json:"enumeration"`
}

type typeDescriptor struct {
	Name            string `yaml:"name" json:"name"`
	Base            string `yaml:"base" json:"base"`
	Documentation   string `yaml:"documentation" json:"documentation"`
	facetDescriptor `yaml:",inline"`
}

type elementDescriptor struct {
	Name            string              `yaml:"name" json:"name"`
	Type            string              `yaml:"type" json:"type"`
	Ref             string              `yaml:"ref" json:"ref"`
	MinOccurs       *lexical            `yaml:"minOccurs" json:"minOccurs"`
	MaxOccurs       *lexical            `yaml:"maxOccurs" json:"maxOccurs"`
	Documentation   string              `yaml:"documentation" json:"documentation"`
	Children        []elementDescriptor `yaml:"children" json:"children"`
	facetDescriptor `yaml:",inline"`
}

// lexical accepts either a string or a bare scalar (number, bool) and keeps
// its literal text.
type lexical string

func (l *lexical) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*l = lexical(s)
		return nil
	}
	if len(b) > 0 && (b[0] == '{' || b[0] == '[') {
		return fmt.Errorf("expected a scalar, got %s", b)
	}
	*l = lexical(b)
	return nil
}

func (l *lexical) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a scalar", n.Line)
	}
	*l = lexical(n.Value)
	return nil
}

func readYAMLDescriptor(data []byte) (*descriptor, error) {
	var desc descriptor
	if err := decodeStrictYAML(data, &desc); err != nil {
		return nil, wrapErr(ErrMalformed, "", "invalid YAML descriptor", err)
	}
	return &desc, nil
}

func readJSONDescriptor(data []byte) (*descriptor, error) {
	var desc descriptor
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&desc); err != nil {
		return nil, wrapErr(ErrMalformed, "", "invalid JSON descriptor", err)
	}
	return &desc, nil
}

// toDocument converts a descriptor into declarations. Unprefixed type names
// refer to a declared named type first and to a builtin otherwise.
func (desc *descriptor) toDocument() *document {
	declared := make(map[string]bool, len(desc.Types))
	for _, t := range desc.Types {
		declared[t.Name] = true
	}
	resolve := func(v string) qname {
		v = strings.TrimSpace(v)
		for _, p := range []string{"xs:", "xsd:"} {
			if strings.HasPrefix(v, p) {
				return qname{local: strings.TrimPrefix(v, p), builtin: true}
			}
		}
		if declared[v] {
			return qname{local: v}
		}
		if _, ok := builtins[v]; ok {
			return qname{local: v, builtin: true}
		}
		return qname{local: v}
	}

	doc := &document{namespace: desc.Namespace, version: string(desc.Version)}
	for _, t := range desc.Types {
		base := t.Base
		if base == "" {
			base = "xs:string"
		}
		doc.simpleTypes = append(doc.simpleTypes, &simpleTypeDecl{
			name:   t.Name,
			base:   resolve(base),
			facets: t.facetDescriptor.decl(),
			doc:    t.Documentation,
		})
	}
	var convert func(e elementDescriptor) *elementDecl
	convert = func(e elementDescriptor) *elementDecl {
		el := &elementDecl{name: e.Name, doc: e.Documentation}
		if e.MinOccurs != nil {
			el.minOccurs = string(*e.MinOccurs)
		}
		if e.MaxOccurs != nil {
			el.maxOccurs = string(*e.MaxOccurs)
		}
		if e.Ref != "" {
			q := resolve(e.Ref)
			el.ref = &q
			if el.name == "" {
				el.name = q.local
			}
		}
		facets := e.facetDescriptor.decl()
		switch {
		case len(e.Children) > 0:
			ct := &complexTypeDecl{}
			for _, c := range e.Children {
				ct.particles = append(ct.particles, convert(c))
			}
			el.complex = ct
		case !facets.empty():
			base := e.Type
			if base == "" {
				base = "xs:string"
			}
			el.simple = &simpleTypeDecl{base: resolve(base), facets: facets}
		case e.Type != "":
			q := resolve(e.Type)
			el.typ = &q
		case e.Ref == "":
			el.typ = &qname{local: "string", builtin: true}
		}
		return el
	}
	for _, e := range desc.Elements {
		doc.elements = append(doc.elements, convert(e))
	}
	return doc
}

func (f facetDescriptor) decl() facetDecl {
	var out facetDecl
	if f.Pattern != "" {
		out.patterns = append(out.patterns, f.Pattern)
	}
	out.patterns = append(out.patterns, f.Patterns...)
	out.enumeration = append(out.enumeration, f.Enumeration...)
	for name, v := range map[string]*lexical{
		facetLength:         f.Length,
		facetMinLength:      f.MinLength,
		facetMaxLength:      f.MaxLength,
		facetMinInclusive:   f.MinInclusive,
		facetMaxInclusive:   f.MaxInclusive,
		facetMinExclusive:   f.MinExclusive,
		facetMaxExclusive:   f.MaxExclusive,
		facetTotalDigits:    f.TotalDigits,
		facetFractionDigits: f.FractionDigits,
	} {
		if v != nil {
			out.set(name, string(*v))
		}
	}
	return out
}
