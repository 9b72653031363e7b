// Package textutil holds the text primitives shared by the cleaning stage,
// the ranking core and the summary composition: sentence splitting,
// tokenising, English stopwords and personal-data scrubbing.
package textutil
