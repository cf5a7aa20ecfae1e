// Package uienhance decorates an HTML document for the ui-enhance stylesheet.
//
// An Enhancer makes sure the page links the companion stylesheet exactly
// once, converts the data-hover="red" authoring convention to the hover-red
// class and raises the text contrast of small print inside buttons. The
// document is passed in explicitly, so the same code runs against parsed
// files, HTML chunks or a document that is still loading.
package uienhance
