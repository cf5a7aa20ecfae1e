package uienhance

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	hoverSelector    = cascadia.MustCompile(fmt.Sprintf(`[%s=%q]`, HoverAttribute, HoverValue))
	contrastSelector = cascadia.MustCompile(`button small, .btn small, .button small`)
	linkSelector     = cascadia.MustCompile(`link`)
)

// Enhancer decorates documents. The zero value is not usable, use New.
type Enhancer struct {
	cfg Config
	log *slog.Logger
}

// Option configures an Enhancer.
type Option func(*Enhancer)

// WithLogger sets the logger for step messages. The default discards them.
func WithLogger(l *slog.Logger) Option {
	return func(e *Enhancer) { e.log = l }
}

// New returns an Enhancer for cfg.
func New(cfg Config, opts ...Option) (*Enhancer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Enhancer{
		cfg: cfg,
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(e)
	}
	return e, nil
}

// Config returns the settings of e.
func (e *Enhancer) Config() Config {
	return e.cfg
}

// Report describes what a call to Enhance did right away.
type Report struct {
	StylesheetInjected bool
	// HoverDeferred is true when the document was still loading and the
	// hover class is applied once the content has been parsed.
	HoverDeferred bool
	// Hovered is the number of marked elements, zero if deferred.
	Hovered  int
	Contrast int
}

// Enhance runs all steps on doc. The hover step waits for the content loaded
// signal when doc is still loading, the other steps run immediately.
func (e *Enhancer) Enhance(doc Document) Report {
	var rep Report
	rep.StylesheetInjected = e.EnsureStylesheetInjected(doc)
	if doc.ReadyState() == Loading {
		rep.HoverDeferred = true
		doc.OnContentLoaded(func() { e.ApplyHoverMarkerClass(doc) })
		e.log.Debug("hover marker deferred", "state", doc.ReadyState())
	} else {
		rep.Hovered = e.ApplyHoverMarkerClass(doc)
	}
	rep.Contrast = e.ApplyAccessibilityContrastFix(doc)
	return rep
}

// hasStylesheet reports whether head links a file ending with name.
func hasStylesheet(head *goquery.Selection, name string) bool {
	found := false
	head.FindMatcher(linkSelector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if href, ok := sel.Attr("href"); ok && strings.HasSuffix(href, name) {
			found = true
		}
		return !found
	})
	return found
}

// EnsureStylesheetInjected appends a link to the configured stylesheet to the
// document head unless one is already present. It returns true if a link was
// added.
func (e *Enhancer) EnsureStylesheetInjected(doc Document) bool {
	head := doc.Head()
	if head.Length() == 0 {
		e.log.Debug("no document head, stylesheet not injected")
		return false
	}
	if hasStylesheet(head, e.cfg.Stylesheet) {
		e.log.Debug("stylesheet already linked", "href", e.cfg.Stylesheet)
		return false
	}
	link := &html.Node{
		Type:     html.ElementNode,
		Data:     "link",
		DataAtom: atom.Link,
		Attr: []html.Attribute{
			{Key: "rel", Val: "stylesheet"},
			{Key: "href", Val: e.cfg.Stylesheet},
		},
	}
	head.AppendNodes(link)
	e.log.Debug("stylesheet injected", "href", e.cfg.Stylesheet)
	return true
}

// ApplyHoverMarkerClass adds the hover class to every element with
// data-hover="red" and returns the number of those elements.
func (e *Enhancer) ApplyHoverMarkerClass(doc Document) int {
	sel := doc.Find(hoverSelector)
	sel.AddClass(HoverClass)
	e.log.Debug("hover marker applied", "elements", sel.Length())
	return sel.Length()
}

// ApplyAccessibilityContrastFix sets the inline text color of small elements
// inside buttons. Stylesheet rules with !important still take precedence.
func (e *Enhancer) ApplyAccessibilityContrastFix(doc Document) int {
	sel := doc.Find(contrastSelector)
	sel.Each(func(_ int, s *goquery.Selection) {
		style, _ := s.Attr("style")
		s.SetAttr("style", SetStyleProperty(style, "color", e.cfg.ContrastColor))
	})
	e.log.Debug("contrast fix applied", "elements", sel.Length(), "color", e.cfg.ContrastColor)
	return sel.Length()
}
