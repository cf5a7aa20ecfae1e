package uienhance

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ReadyState mirrors the loading phases of a page.
type ReadyState int

const (
	// Loading means the structural markup is still being parsed.
	Loading ReadyState = iota
	// Interactive means parsing has finished, sub resources may still load.
	Interactive
	// Complete means the page and its resources have finished loading.
	Complete
)

func (rs ReadyState) String() string {
	switch rs {
	case Loading:
		return "loading"
	case Interactive:
		return "interactive"
	case Complete:
		return "complete"
	}
	return fmt.Sprintf("ReadyState(%d)", int(rs))
}

// Document is the page an Enhancer works on.
type Document interface {
	ReadyState() ReadyState
	// OnContentLoaded registers fn to run once the structural markup has
	// been parsed.
	OnContentLoaded(fn func())
	// Head returns the document head, which may be an empty selection.
	Head() *goquery.Selection
	Find(m goquery.Matcher) *goquery.Selection
}

// HTMLDocument is a Document backed by a goquery DOM.
type HTMLDocument struct {
	*goquery.Document
	state     ReadyState
	listeners []func()
}

// NewDocument wraps doc with the given ready state.
func NewDocument(doc *goquery.Document, state ReadyState) *HTMLDocument {
	return &HTMLDocument{Document: doc, state: state}
}

// ParseHTML reads HTML from r. The returned document has finished loading.
func ParseHTML(r io.Reader) (*HTMLDocument, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	return NewDocument(doc, Complete), nil
}

// ParseHTMLChunk parses the HTML text.
func ParseHTMLChunk(htmltext string) (*HTMLDocument, error) {
	return ParseHTML(strings.NewReader(htmltext))
}

// ParseHTMLFile opens and parses an HTML file.
func ParseHTMLFile(filename string) (*HTMLDocument, error) {
	r, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	doc, err := ParseHTML(r)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	return doc, nil
}

// ReadyState returns the current loading phase.
func (d *HTMLDocument) ReadyState() ReadyState {
	return d.state
}

// OnContentLoaded queues fn until FinishParsing is called. Once the document
// has left the loading state the signal is gone and fn is ignored.
func (d *HTMLDocument) OnContentLoaded(fn func()) {
	if d.state != Loading {
		return
	}
	d.listeners = append(d.listeners, fn)
}

// FinishParsing signals that the structural markup is complete. A loading
// document becomes interactive and the queued callbacks run in the order
// they were registered. The signal fires once, later calls do nothing.
func (d *HTMLDocument) FinishParsing() {
	if d.state != Loading {
		return
	}
	d.state = Interactive
	listeners := d.listeners
	d.listeners = nil
	for _, fn := range listeners {
		fn()
	}
}

// Head returns the head element.
func (d *HTMLDocument) Head() *goquery.Selection {
	return d.Document.Find("head").First()
}

// Find returns all elements matching m.
func (d *HTMLDocument) Find(m goquery.Matcher) *goquery.Selection {
	return d.Document.FindMatcher(m)
}

// Render writes the document as HTML to w.
func (d *HTMLDocument) Render(w io.Writer) error {
	for _, n := range d.Document.Nodes {
		if err := html.Render(w, n); err != nil {
			return err
		}
	}
	return nil
}

// HTML returns the serialized document.
func (d *HTMLDocument) HTML() (string, error) {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
