// Package connectors holds adapters that bring documents into digest from
// outside the API surfaces. The filesystem connector watches an inbox
// directory so dropped files are ingested and cleaned without a request.
package connectors
