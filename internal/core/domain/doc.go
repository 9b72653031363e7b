// Package domain holds digest's data model: raw and extracted documents,
// the sentence corpus produced by cleaning, summary records and the
// artifacts that persist each pipeline stage, plus settings and the error
// kinds every layer reports.
//
// It imports only the standard library.
package domain
