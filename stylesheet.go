package uienhance

import (
	_ "embed"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/speedata/css/scanner"
)

// tokenstream is a list of CSS tokens
type tokenstream []*scanner.Token

func tokenizeCSSString(str string) tokenstream {
	var toks tokenstream
	s := scanner.New(str)
	for {
		tok := s.Next()
		if tok.Type == scanner.EOF || tok.Type == scanner.Error {
			break
		}
		toks = append(toks, tok)
	}
	return toks
}

// groupingRules hold style rules instead of declarations.
var groupingRules = map[string]bool{
	"media":     true,
	"supports":  true,
	"layer":     true,
	"container": true,
	"scope":     true,
	"document":  true,
}

//go:embed ui-enhance.css
var stylesheet string

// Stylesheet returns the bundled companion stylesheet.
func Stylesheet() string {
	return stylesheet
}

// DefinesClass reports whether css contains a selector for the class name.
// Declaration blocks are skipped, so a class name inside a property value
// does not count. Rules nested in grouping at-rules such as @media, @layer
// or @container are searched.
func DefinesClass(css, class string) bool {
	// one entry per open brace, true for a declaration block
	var blocks []bool
	groupingRule := false
	toks := tokenizeCSSString(css)
	for i, t := range toks {
		if t.Type == scanner.AtKeyword {
			groupingRule = groupingRules[strings.ToLower(t.Value)]
			continue
		}
		if t.Type != scanner.Delim {
			continue
		}
		inDecl := len(blocks) > 0 && blocks[len(blocks)-1]
		switch t.Value {
		case "{":
			blocks = append(blocks, inDecl || !groupingRule)
			groupingRule = false
		case "}":
			if len(blocks) > 0 {
				blocks = blocks[:len(blocks)-1]
			}
		case ";":
			groupingRule = false
		case ".":
			if !inDecl && i+1 < len(toks) && toks[i+1].Type == scanner.Ident && toks[i+1].Value == class {
				return true
			}
		}
	}
	return false
}

// WriteStylesheet writes the bundled stylesheet as name into dir unless a
// file with that name exists. It returns true if the file was written.
func WriteStylesheet(dir, name string) (bool, error) {
	fn := filepath.Join(dir, name)
	_, err := os.Stat(fn)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}
	if err = os.WriteFile(fn, []byte(stylesheet), 0o644); err != nil {
		return false, err
	}
	return true, nil
}
