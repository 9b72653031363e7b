package html

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/digest/internal/core/domain"
)

func TestSupportedMIMETypes(t *testing.T) {
	assert.Contains(t, New().SupportedMIMETypes(), "text/html")
	assert.Equal(t, 50, New().Priority())
}

func TestNormalise_Success(t *testing.T) {
	source := `<!DOCTYPE html>
<html><head><title> Wind &amp; Solar </title><style>p{color:red}</style></head>
<body>
<!-- nav -->
<h1>Renewables</h1>
<p>Wind farms&nbsp;scale <b>quickly</b>.</p>
<script>alert("x")</script>
<ul><li>Cheap</li><li>Clean</li></ul>
</body></html>`
	raw := &domain.RawDocument{URI: "/tmp/energy.html", MIMEType: "text/html", Content: []byte(source)}

	doc, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, "energy", doc.ID)
	assert.Equal(t, "Wind & Solar", doc.Title)
	assert.Equal(t, "html", doc.Metadata["format"])
	assert.Equal(t, "Renewables\nWind farms scale quickly.\nCheap\nClean", doc.Content)
}

func TestNormalise_TitleFallback(t *testing.T) {
	raw := &domain.RawDocument{URI: "plain_page.html", MIMEType: "text/html", Content: []byte("<p>Body only.</p>")}

	doc, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "plain page", doc.Title)
	assert.Equal(t, "Body only.", doc.Content)
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"empty", "", ""},
		{"line breaks", "one<br>two<br/>three", "one\ntwo\nthree"},
		{"entities", "&lt;tag&gt; &quot;q&quot;", `<tag> "q"`},
		{"inline tags", `<a href="x">link</a> <em>text</em>`, "link text"},
		{"table cells", "<table><tr><td>a</td><td>b</td></tr></table>", "a\nb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripHTML(tt.in))
		})
	}
}

func TestNormalise_NilDocument(t *testing.T) {
	_, err := New().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
