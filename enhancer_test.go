package uienhance

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEnhancer(t *testing.T) *Enhancer {
	t.Helper()
	e, err := New(DefaultConfig())
	require.NoError(t, err)
	return e
}

func parse(t *testing.T, str string) *HTMLDocument {
	t.Helper()
	doc, err := ParseHTMLChunk(str)
	require.NoError(t, err)
	return doc
}

func stylesheetLinks(doc *HTMLDocument) int {
	n := 0
	doc.Head().Find("link").Each(func(_ int, sel *goquery.Selection) {
		if href, _ := sel.Attr("href"); strings.HasSuffix(href, DefaultStylesheet) {
			n++
		}
	})
	return n
}

func TestEmptyPage(t *testing.T) {
	e := newTestEnhancer(t)
	doc := parse(t, `<html><head></head><body></body></html>`)

	rep := e.Enhance(doc)
	assert.True(t, rep.StylesheetInjected)
	assert.Zero(t, rep.Hovered)
	assert.Zero(t, rep.Contrast)
	assert.Equal(t, 1, stylesheetLinks(doc))

	link := doc.Head().Find("link")
	rel, _ := link.Attr("rel")
	assert.Equal(t, "stylesheet", rel)
	assert.Equal(t, 0, doc.Document.Find("[class]").Length())
}

func TestStylesheetAlreadyPresent(t *testing.T) {
	e := newTestEnhancer(t)
	doc := parse(t, `<html><head><link rel="stylesheet" href="assets/ui-enhance.css"></head><body></body></html>`)

	rep := e.Enhance(doc)
	assert.False(t, rep.StylesheetInjected)
	assert.Equal(t, 1, doc.Head().Find("link").Length())
}

func TestEnhanceTwice(t *testing.T) {
	e := newTestEnhancer(t)
	doc := parse(t, `<p data-hover="red" class="a">x</p>`)

	e.Enhance(doc)
	rep := e.Enhance(doc)
	assert.False(t, rep.StylesheetInjected)
	assert.Equal(t, 1, stylesheetLinks(doc))

	class, _ := doc.Document.Find("p").Attr("class")
	assert.Equal(t, "a hover-red", class)
}

func TestOtherStylesheetIgnored(t *testing.T) {
	e := newTestEnhancer(t)
	doc := parse(t, `<html><head><link rel="stylesheet" href="main.css"></head></html>`)

	assert.True(t, e.EnsureStylesheetInjected(doc))
	assert.Equal(t, 2, doc.Head().Find("link").Length())
	assert.Equal(t, 1, stylesheetLinks(doc))
}

func TestHoverMarker(t *testing.T) {
	e := newTestEnhancer(t)
	doc := parse(t, `<body>
	<a id="a" data-hover="red">a</a>
	<button id="b" data-hover="red" class="btn">b</button>
	<div id="c" data-hover="red" class="hover-red">c</div>
	<div id="d" data-hover="blue">d</div>
	</body>`)

	assert.Equal(t, 3, e.ApplyHoverMarkerClass(doc))
	for _, id := range []string{"a", "b", "c"} {
		assert.True(t, doc.Document.Find("#"+id).HasClass(HoverClass), id)
	}
	class, _ := doc.Document.Find("#c").Attr("class")
	assert.Equal(t, "hover-red", class)
	_, hasClass := doc.Document.Find("#d").Attr("class")
	assert.False(t, hasClass)
}

func TestHoverDeferredWhileLoading(t *testing.T) {
	e := newTestEnhancer(t)
	gq, err := goquery.NewDocumentFromReader(strings.NewReader(`<span data-hover="red">x</span>`))
	require.NoError(t, err)
	doc := NewDocument(gq, Loading)

	rep := e.Enhance(doc)
	assert.True(t, rep.HoverDeferred)
	assert.True(t, rep.StylesheetInjected)
	assert.False(t, doc.Document.Find("span").HasClass(HoverClass))

	doc.FinishParsing()
	assert.Equal(t, Interactive, doc.ReadyState())
	assert.True(t, doc.Document.Find("span").HasClass(HoverClass))
}

func TestHoverImmediateWhenLoaded(t *testing.T) {
	e := newTestEnhancer(t)
	for _, state := range []ReadyState{Interactive, Complete} {
		gq, err := goquery.NewDocumentFromReader(strings.NewReader(`<span data-hover="red">x</span>`))
		require.NoError(t, err)
		doc := NewDocument(gq, state)

		rep := e.Enhance(doc)
		assert.False(t, rep.HoverDeferred, state.String())
		assert.Equal(t, 1, rep.Hovered, state.String())
		assert.True(t, doc.Document.Find("span").HasClass(HoverClass), state.String())
	}
}

func TestContrastFix(t *testing.T) {
	e := newTestEnhancer(t)
	doc := parse(t, `<body>
	<button><small id="a">a</small></button>
	<a class="btn"><span><small id="b" style="font-weight: bold">b</small></span></a>
	<div class="button"><small id="c" style="color: red">c</small></div>
	<p><small id="d">d</small></p>
	</body>`)

	assert.Equal(t, 3, e.ApplyAccessibilityContrastFix(doc))

	style, _ := doc.Document.Find("#a").Attr("style")
	assert.Equal(t, "color: #dfeeff", style)
	style, _ = doc.Document.Find("#b").Attr("style")
	assert.Equal(t, "font-weight: bold; color: #dfeeff", style)
	style, _ = doc.Document.Find("#c").Attr("style")
	assert.Equal(t, "color: #dfeeff", style)
	_, ok := doc.Document.Find("#d").Attr("style")
	assert.False(t, ok)
}

func TestContrastFixKeepsOtherDeclarations(t *testing.T) {
	e := newTestEnhancer(t)
	doc := parse(t, `<button><small style="width: calc(100% - 10px); margin-left: 50%; font-family: 'Open Sans'; content: &#34;a;b&#34;">x</small></button>`)

	rep := e.Enhance(doc)
	assert.Equal(t, 1, rep.Contrast)
	style, _ := doc.Document.Find("small").Attr("style")
	assert.Equal(t, `width: calc(100% - 10px); margin-left: 50%; font-family: 'Open Sans'; content: "a;b"; color: #dfeeff`, style)

	e.Enhance(doc)
	again, _ := doc.Document.Find("small").Attr("style")
	assert.Equal(t, style, again)
}

func TestCustomConfig(t *testing.T) {
	e, err := New(Config{Stylesheet: "theme.css", ContrastColor: "white"})
	require.NoError(t, err)
	doc := parse(t, `<button><small>x</small></button>`)

	e.Enhance(doc)
	href, _ := doc.Head().Find("link").Attr("href")
	assert.Equal(t, "theme.css", href)
	style, _ := doc.Document.Find("small").Attr("style")
	assert.Equal(t, "color: white", style)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := New(Config{Stylesheet: "ui-enhance.css", ContrastColor: "not-a-color"})
	assert.Error(t, err)
}
