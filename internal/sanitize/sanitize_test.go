package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain text untouched",
			in:   `Tom & Jerry's "best" episodes`,
			want: `Tom & Jerry's "best" episodes`,
		},
		{
			name: "script escaped",
			in:   `Naughty naughty very naughty <script>alert("xss");</script>`,
			want: `Naughty naughty very naughty &lt;script&gt;alert("xss");&lt;/script&gt;`,
		},
		{
			name: "event handler dropped, allowed tags kept",
			in:   `Bad image <img src="https://url.to.file.which/does-not.exist" onerror="alert(document.cookie);">. But not <strong>all</strong> bad.`,
			want: `Bad image <img src="https://url.to.file.which/does-not.exist">. But not <strong>all</strong> bad.`,
		},
		{
			name: "iframe escaped",
			in:   `<iframe src="https://evil.example"></iframe>`,
			want: `&lt;iframe src="https://evil.example"&gt;&lt;/iframe&gt;`,
		},
		{
			name: "javascript href dropped",
			in:   `<a href="javascript:alert(1)" title="t">click</a>`,
			want: `<a title="t">click</a>`,
		},
		{
			name: "safe hrefs kept",
			in:   `<a href="https://example.com/x">a</a><a href="/local">b</a><a href="#top">c</a><a href="mailto:me@example.com">d</a>`,
			want: `<a href="https://example.com/x">a</a><a href="/local">b</a><a href="#top">c</a><a href="mailto:me@example.com">d</a>`,
		},
		{
			name: "style and unknown attributes dropped",
			in:   `<p style="color:red" class="x" id="y">hi</p>`,
			want: `<p>hi</p>`,
		},
		{
			name: "tag names lowercased",
			in:   `<STRONG>loud</STRONG>`,
			want: `<strong>loud</strong>`,
		},
		{
			name: "unterminated tag at end kept as text",
			in:   `hello <b`,
			want: `hello &lt;b`,
		},
		{
			name: "unterminated tag with attributes at end kept as text",
			in:   `<strong>ok</strong> then <img src="x" onerror="alert(1)"`,
			want: `<strong>ok</strong> then &lt;img src="x" onerror="alert(1)"`,
		},
		{
			name: "lone angle bracket at end",
			in:   `a < b <`,
			want: `a &lt; b &lt;`,
		},
		{
			name: "self closing",
			in:   `line<br/>break`,
			want: `line<br />break`,
		},
		{
			name: "comments removed",
			in:   `a<!-- hidden -->b`,
			want: `ab`,
		},
		{
			name: "bare angle brackets escaped",
			in:   `1 < 2 and 3 > 2`,
			want: `1 &lt; 2 and 3 &gt; 2`,
		},
		{
			name: "entities in text preserved",
			in:   `<b>fish &amp; chips</b>`,
			want: `<b>fish &amp; chips</b>`,
		},
		{
			name: "attribute values re-escaped",
			in:   `<img alt='say "hi"' src="pic.png">`,
			want: `<img alt="say &#34;hi&#34;" src="pic.png">`,
		},
		{
			name: "empty",
			in:   ``,
			want: ``,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, String(tt.in))
		})
	}
}

func TestSafeURL(t *testing.T) {
	for _, v := range []string{"https://a.b", "HTTP://A.B", "tel:+15555555", "relative/path", "page?x=a:b", "#frag", "/abs"} {
		assert.True(t, safeURL(v), v)
	}
	for _, v := range []string{"", "javascript:alert(1)", "data:text/html;base64,xx", "vbscript:msgbox", " JaVaScRiPt:x"} {
		assert.False(t, safeURL(v), v)
	}
}
