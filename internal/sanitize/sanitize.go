// Package sanitize filters user-supplied text before it is written into a
// response. Allow-listed markup survives; everything else is escaped.
package sanitize

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

var allowedTags = map[string]map[string]bool{
	"a":          {"href": true, "title": true, "target": true},
	"b":          nil,
	"blockquote": nil,
	"br":         nil,
	"code":       nil,
	"em":         nil,
	"h1":         nil,
	"h2":         nil,
	"h3":         nil,
	"h4":         nil,
	"h5":         nil,
	"h6":         nil,
	"hr":         nil,
	"i":          nil,
	"img":        {"src": true, "alt": true, "title": true, "width": true, "height": true},
	"li":         nil,
	"ol":         nil,
	"p":          nil,
	"pre":        nil,
	"s":          nil,
	"small":      nil,
	"span":       nil,
	"strong":     nil,
	"sub":        nil,
	"sup":        nil,
	"table":      nil,
	"tbody":      nil,
	"td":         nil,
	"th":         nil,
	"thead":      nil,
	"tr":         nil,
	"u":          nil,
	"ul":         nil,
}

var urlAttrs = map[string]bool{"href": true, "src": true}

var angleEscaper = strings.NewReplacer("<", "&lt;", ">", "&gt;")

// String returns s with disallowed markup escaped, disallowed attributes
// removed and comments dropped. Plain text without angle brackets is
// returned unchanged.
func String(s string) string {
	if !strings.ContainsAny(s, "<>") {
		return s
	}

	var out strings.Builder
	out.Grow(len(s))

	z := html.NewTokenizer(strings.NewReader(s))
	consumed := 0
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			// An unterminated tag or comment at the end of s never becomes a
			// token; keep it as escaped text.
			if z.Err() == io.EOF && consumed < len(s) {
				out.WriteString(angleEscaper.Replace(s[consumed:]))
			}
			return out.String()
		}

		// Token lowercases the tokenizer buffer in place, so copy Raw first.
		raw := string(z.Raw())
		consumed += len(raw)

		switch tt {
		case html.TextToken:
			out.WriteString(angleEscaper.Replace(raw))
		case html.CommentToken:
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			attrs, ok := allowedTags[tok.Data]
			if !ok {
				out.WriteString(angleEscaper.Replace(raw))
				continue
			}
			writeTag(&out, tt, tok, attrs)
		default:
			out.WriteString(angleEscaper.Replace(raw))
		}
	}
}

func writeTag(out *strings.Builder, tt html.TokenType, tok html.Token, allowed map[string]bool) {
	if tt == html.EndTagToken {
		out.WriteString("</" + tok.Data + ">")
		return
	}

	out.WriteString("<" + tok.Data)
	for _, a := range tok.Attr {
		key := strings.ToLower(a.Key)
		if a.Namespace != "" || !allowed[key] {
			continue
		}
		if urlAttrs[key] && !safeURL(a.Val) {
			continue
		}
		out.WriteString(" " + key + `="` + html.EscapeString(a.Val) + `"`)
	}
	if tt == html.SelfClosingTagToken {
		out.WriteString(" />")
		return
	}
	out.WriteString(">")
}

// safeURL reports whether v is relative, a fragment, or uses one of the
// http, https, mailto or tel schemes.
func safeURL(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return false
	}
	if strings.HasPrefix(v, "#") || strings.HasPrefix(v, "/") {
		return true
	}

	colon := strings.IndexByte(v, ':')
	if colon < 0 {
		return true
	}
	// A colon after the first path, query or fragment delimiter is not a scheme.
	if end := strings.IndexAny(v, "/?#"); end >= 0 && end < colon {
		return true
	}

	switch strings.ToLower(v[:colon]) {
	case "http", "https", "mailto", "tel":
		return true
	}
	return false
}
