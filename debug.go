package uienhance

import (
	"strings"
)

func (d declaration) String() string {
	if d.text != "" {
		return d.text
	}
	return d.property + ": " + d.value
}

func (d declarations) String() string {
	ret := make([]string, 0, len(d))
	for _, decl := range d {
		ret = append(ret, decl.String())
	}
	return strings.Join(ret, "; ")
}
