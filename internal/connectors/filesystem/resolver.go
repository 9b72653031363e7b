package filesystem

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// LocalPath turns an ingest argument into a local path. It accepts
// file:// URIs (percent-escapes decoded, host "localhost" or empty), a
// leading "~/" for the home directory, and bare paths, which pass through.
func LocalPath(uri string) string {
	if rest, ok := strings.CutPrefix(uri, "file://"); ok {
		return fromFileURI(uri, rest)
	}
	if rest, ok := strings.CutPrefix(uri, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, rest)
		}
	}
	return uri
}

func fromFileURI(uri, rest string) string {
	u, err := url.Parse(uri)
	if err != nil || (u.Host != "" && u.Host != "localhost") {
		// Unparseable, or a remote host we cannot reach: keep the raw path.
		return rest
	}
	return filepath.FromSlash(u.Path)
}
