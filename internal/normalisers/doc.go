// Package normalisers extracts plain text from uploaded files.
//
// Each sub-package handles one family of formats. The Registry in this
// package picks the highest-priority normaliser for a MIME type, and
// MIMETypeFor maps file names to the MIME types normalisers declare.
package normalisers
