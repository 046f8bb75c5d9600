package xsdimport

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// node is the minimal DOM the XSD front-end works on.
type node struct {
	local    string
	space    string
	attrs    map[string]string
	scope    map[string]string // namespace prefix -> URI in effect for this node
	children []*node
	text     strings.Builder
}

func (n *node) attr(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

func (n *node) isXSD(local string) bool { return n.space == xsdNamespace && n.local == local }

// qname resolves a QName-valued attribute against the node's prefix scope.
func (n *node) qname(v string) qname {
	v = strings.TrimSpace(v)
	prefix, local := "", v
	if i := strings.IndexByte(v, ':'); i >= 0 {
		prefix, local = v[:i], v[i+1:]
	}
	return qname{local: local, builtin: n.scope[prefix] == xsdNamespace}
}

func parseXML(r io.Reader) (*node, error) {
	dec := xml.NewDecoder(r)
	var stack []*node
	var root *node
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if root != nil && len(stack) == 0 {
				return nil, fmt.Errorf("unexpected element %s after document end", t.Name.Local)
			}
			var parentScope map[string]string
			if len(stack) > 0 {
				parentScope = stack[len(stack)-1].scope
			}
			n := &node{local: t.Name.Local, space: t.Name.Space, attrs: make(map[string]string, len(t.Attr)), scope: parentScope}
			for _, a := range t.Attr {
				switch {
				case a.Name.Space == "xmlns":
					n.declare(a.Name.Local, a.Value)
				case a.Name.Space == "" && a.Name.Local == "xmlns":
					n.declare("", a.Value)
				case a.Name.Space == "":
					n.attrs[a.Name.Local] = a.Value
				}
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, n)
			} else {
				root = n
			}
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		}
	}
	if root == nil {
		return nil, io.ErrUnexpectedEOF
	}
	return root, nil
}

// declare binds a prefix on n, copying the inherited scope on first write.
func (n *node) declare(prefix, uri string) {
	scope := make(map[string]string, len(n.scope)+1)
	for k, v := range n.scope {
		scope[k] = v
	}
	scope[prefix] = uri
	n.scope = scope
}

// readXSD converts an XSD document into declarations.
func readXSD(data []byte, d *simpleDiag) (*document, error) {
	root, err := parseXML(bytes.NewReader(data))
	if err != nil {
		return nil, wrapErr(ErrMalformed, "", "invalid XML", err)
	}
	if !root.isXSD("schema") {
		return nil, parseErr(ErrMalformed, "", fmt.Sprintf("root element is {%s}%s, want xs:schema", root.space, root.local))
	}
	doc := &document{}
	doc.namespace, _ = root.attr("targetNamespace")
	doc.version, _ = root.attr("version")
	for _, c := range root.children {
		if c.space != xsdNamespace {
			continue
		}
		switch c.local {
		case "simpleType":
			st, err := readSimpleType(c, d)
			if err != nil {
				return nil, err
			}
			if st.name == "" {
				return nil, parseErr(ErrMalformed, "", "top-level simpleType without name")
			}
			doc.simpleTypes = append(doc.simpleTypes, st)
		case "complexType":
			ct, err := readComplexType(c, d)
			if err != nil {
				return nil, err
			}
			if ct.name == "" {
				return nil, parseErr(ErrMalformed, "", "top-level complexType without name")
			}
			doc.complexTypes = append(doc.complexTypes, ct)
		case "element":
			el, err := readElement(c, false, d)
			if err != nil {
				return nil, err
			}
			if el.name == "" {
				return nil, parseErr(ErrMalformed, "", "top-level element without name")
			}
			doc.elements = append(doc.elements, el)
		case "annotation":
		default:
			d.warnf("top-level xs:%s is not supported; skipped", c.local)
		}
	}
	return doc, nil
}

func documentation(n *node) string {
	var parts []string
	for _, c := range n.children {
		if !c.isXSD("annotation") {
			continue
		}
		for _, dc := range c.children {
			if dc.isXSD("documentation") {
				if s := strings.TrimSpace(dc.text.String()); s != "" {
					parts = append(parts, s)
				}
			}
		}
	}
	return strings.Join(parts, "\n")
}

func readSimpleType(n *node, d *simpleDiag) (*simpleTypeDecl, error) {
	st := &simpleTypeDecl{doc: documentation(n)}
	st.name, _ = n.attr("name")
	for _, c := range n.children {
		if c.space != xsdNamespace {
			continue
		}
		switch c.local {
		case "restriction":
			base, ok := c.attr("base")
			if !ok {
				return nil, parseErr(ErrMalformed, st.name, "restriction without base attribute")
			}
			st.base = c.qname(base)
			st.facets = readFacets(c)
			return st, nil
		case "list", "union":
			d.warnf("simpleType %q: xs:%s is treated as string", st.name, c.local)
			st.base = qname{local: "string", builtin: true}
			return st, nil
		}
	}
	return nil, parseErr(ErrMalformed, st.name, "simpleType without restriction")
}

// readFacets collects the facet children of a restriction.
func readFacets(r *node) facetDecl {
	var fd facetDecl
	for _, f := range r.children {
		if f.space != xsdNamespace || f.local == "annotation" {
			continue
		}
		v, _ := f.attr("value")
		switch f.local {
		case "pattern":
			fd.patterns = append(fd.patterns, v)
		case "enumeration":
			fd.enumeration = append(fd.enumeration, v)
		case "whiteSpace", "attribute", "attributeGroup", "anyAttribute", "simpleType":
		default:
			fd.set(f.local, v)
		}
	}
	return fd
}

func readComplexType(n *node, d *simpleDiag) (*complexTypeDecl, error) {
	ct := &complexTypeDecl{doc: documentation(n)}
	ct.name, _ = n.attr("name")
	for _, c := range n.children {
		if c.space != xsdNamespace {
			continue
		}
		switch c.local {
		case "sequence", "all", "choice":
			ps, err := readParticles(c, false, d)
			if err != nil {
				return nil, err
			}
			ct.particles = append(ct.particles, ps...)
		case "complexContent", "simpleContent":
			for _, ext := range c.children {
				if !ext.isXSD("extension") && !ext.isXSD("restriction") {
					continue
				}
				base, ok := ext.attr("base")
				if !ok {
					return nil, parseErr(ErrMalformed, ct.name, c.local+" derivation without base")
				}
				q := ext.qname(base)
				if c.local == "simpleContent" {
					ct.simpleBase = &q
					if ext.local == "restriction" {
						ct.simpleFacets = readFacets(ext)
					}
					continue
				}
				if ext.local == "restriction" {
					// a restriction restates the content it keeps
					d.warnf("complexType %q: complexContent restriction of %s uses only its own particles", ct.name, q)
				} else {
					ct.base = &q
				}
				for _, g := range ext.children {
					if g.isXSD("sequence") || g.isXSD("all") || g.isXSD("choice") {
						ps, err := readParticles(g, false, d)
						if err != nil {
							return nil, err
						}
						ct.particles = append(ct.particles, ps...)
					}
				}
			}
		case "attribute", "attributeGroup", "anyAttribute":
			d.warnf("complexType %q: xs:%s is not supported; skipped", ct.name, c.local)
		}
	}
	return ct, nil
}

// readParticles flattens a model group. Members of a choice, or of a group
// with minOccurs="0", are optional.
func readParticles(g *node, optional bool, d *simpleDiag) ([]*elementDecl, error) {
	if g.local == "choice" {
		optional = true
	}
	if mo, ok := g.attr("minOccurs"); ok && strings.TrimSpace(mo) == "0" {
		optional = true
	}
	var out []*elementDecl
	for _, c := range g.children {
		if c.space != xsdNamespace {
			continue
		}
		switch c.local {
		case "element":
			el, err := readElement(c, optional, d)
			if err != nil {
				return nil, err
			}
			out = append(out, el)
		case "sequence", "all", "choice":
			ps, err := readParticles(c, optional, d)
			if err != nil {
				return nil, err
			}
			out = append(out, ps...)
		case "annotation":
		default:
			d.warnf("xs:%s inside a model group is not supported; skipped", c.local)
		}
	}
	return out, nil
}

func readElement(n *node, optional bool, d *simpleDiag) (*elementDecl, error) {
	el := &elementDecl{optional: optional, doc: documentation(n)}
	el.name, _ = n.attr("name")
	if ref, ok := n.attr("ref"); ok {
		q := n.qname(ref)
		el.ref = &q
		if el.name == "" {
			el.name = q.local
		}
	}
	if el.name == "" {
		return nil, parseErr(ErrMalformed, "", "element without name or ref")
	}
	if typ, ok := n.attr("type"); ok {
		q := n.qname(typ)
		el.typ = &q
	}
	el.minOccurs, _ = n.attr("minOccurs")
	el.maxOccurs, _ = n.attr("maxOccurs")
	for _, c := range n.children {
		switch {
		case c.isXSD("simpleType"):
			st, err := readSimpleType(c, d)
			if err != nil {
				return nil, err
			}
			el.simple = st
		case c.isXSD("complexType"):
			ct, err := readComplexType(c, d)
			if err != nil {
				return nil, err
			}
			el.complex = ct
		}
	}
	return el, nil
}
