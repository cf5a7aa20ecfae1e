package uienhance

import (
	"strings"
)

// declaration is a single property: value pair of a style attribute
type declaration struct {
	property string
	value    string
	text     string // source text, empty for a declaration set by us
}

// declarations is the ordered content of a style attribute
type declarations []declaration

// parseDeclarations splits the text of a style attribute at the semicolons
// that are outside of strings, comments and brackets. Entries without a
// colon or without a property name are dropped, just like a browser ignores
// them. The source text of every entry is kept.
func parseDeclarations(style string) declarations {
	var decls declarations
	start := 0
	colon := -1
	depth := 0
	var quote byte
	add := func(end int) {
		if colon >= 0 {
			if key := strings.TrimSpace(style[start:colon]); key != "" {
				decls = append(decls, declaration{
					property: key,
					value:    strings.TrimSpace(style[colon+1 : end]),
					text:     strings.TrimSpace(style[start:end]),
				})
			}
		}
		colon = -1
		start = end + 1
	}
	for i := 0; i < len(style); i++ {
		c := style[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '\\':
			i++
		case c == '"' || c == '\'':
			quote = c
		case c == '/' && i+1 < len(style) && style[i+1] == '*':
			if end := strings.Index(style[i+2:], "*/"); end < 0 {
				i = len(style)
			} else {
				i += end + 3
			}
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']' || c == '}':
			if depth > 0 {
				depth--
			}
		case depth > 0:
			// inside a function or block
		case c == ':':
			if colon < 0 {
				colon = i
			}
		case c == ';':
			add(i)
		}
	}
	if start < len(style) {
		add(len(style))
	}
	return decls
}

// set replaces the first declaration of property and drops later ones, or
// appends a new declaration. The other declarations keep their source text.
func (d declarations) set(property, value string) declarations {
	property = strings.ToLower(property)
	ret := d[:0]
	found := false
	for _, decl := range d {
		if !strings.EqualFold(decl.property, property) {
			ret = append(ret, decl)
			continue
		}
		if !found {
			ret = append(ret, declaration{property: property, value: value})
			found = true
		}
	}
	if !found {
		ret = append(ret, declaration{property: property, value: value})
	}
	return ret
}

// get returns the value of property and whether it is set.
func (d declarations) get(property string) (string, bool) {
	for i := len(d) - 1; i >= 0; i-- {
		if strings.EqualFold(d[i].property, property) {
			return d[i].value, true
		}
	}
	return "", false
}

// SetStyleProperty returns style with property set to value. Other
// declarations keep their order and their text.
func SetStyleProperty(style, property, value string) string {
	return parseDeclarations(style).set(property, value).String()
}

// StyleProperty returns the value of property in the style attribute text.
// If the property is declared more than once, the last one wins.
func StyleProperty(style, property string) (string, bool) {
	return parseDeclarations(style).get(property)
}
