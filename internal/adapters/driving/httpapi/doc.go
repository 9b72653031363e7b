// Package httpapi exposes the pipeline over HTTP with a chi router.
//
// All routes live under /api except /health. Failures are written as
// {"error":{"kind":...,"message":...}} with the status derived from
// domain.KindOf.
package httpapi
