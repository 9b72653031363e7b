// Package html extracts readable text from HTML pages. Scripts, styles and
// comments are dropped; block elements become line breaks.
package html
