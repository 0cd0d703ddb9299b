package markdown

import (
	"strings"

	"golang.org/x/net/html"
)

// Decorations configures the post-processing applied to finalized HTML.
type Decorations struct {
	// CopyButtons adds a copy button in front of every <pre> block.
	CopyButtons bool
	// Resolve maps the text of an inline code span to a known file path.
	// Nil disables file references.
	Resolve func(text string) (path string, ok bool)
}

func (d Decorations) enabled() bool {
	return d.CopyButtons || d.Resolve != nil
}

// Decorate rewrites src, leaving every token it does not decorate exactly as
// it was.
func Decorate(src string, d Decorations) string {
	if src == "" || !d.enabled() {
		return src
	}

	z := html.NewTokenizer(strings.NewReader(src))
	var sb strings.Builder
	sb.Grow(len(src) + len(src)/8)

	preDepth := 0
	var wrapped []bool // per open <pre>, whether a wrapper div was emitted

	// Inline code span being collected.
	var (
		inCode   bool
		codeOpen string
		codeBody strings.Builder
		codeText strings.Builder
	)

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		raw := string(z.Raw())

		if inCode {
			if tt == html.EndTagToken && tagName(z) == "code" {
				sb.WriteString(fileRef(codeOpen, codeBody.String(), codeText.String(), d.Resolve))
				sb.WriteString(raw)
				inCode = false
				continue
			}
			codeBody.WriteString(raw)
			if tt == html.TextToken {
				codeText.WriteString(html.UnescapeString(raw))
			}
			continue
		}

		switch tt {
		case html.StartTagToken:
			tok := z.Token()
			switch tok.Data {
			case "pre":
				preDepth++
				wrap := d.CopyButtons
				wrapped = append(wrapped, wrap)
				if wrap {
					kind := "code"
					if hasClass(tok.Attr, "edit-diff") {
						kind = "replace"
					}
					sb.WriteString(`<div class="code-block"><button class="copy-button" type="button" data-copy="` + kind + `">Copy</button>`)
				}
			case "code":
				if preDepth == 0 && d.Resolve != nil {
					inCode = true
					codeOpen = raw
					codeBody.Reset()
					codeText.Reset()
					continue
				}
			}
			sb.WriteString(raw)

		case html.EndTagToken:
			sb.WriteString(raw)
			if tagName(z) == "pre" && preDepth > 0 {
				preDepth--
				if wrapped[len(wrapped)-1] {
					sb.WriteString("</div>")
				}
				wrapped = wrapped[:len(wrapped)-1]
			}

		default:
			sb.WriteString(raw)
		}
	}

	// Unterminated inline code: emit as collected.
	if inCode {
		sb.WriteString(codeOpen)
		sb.WriteString(codeBody.String())
	}
	return sb.String()
}

func fileRef(open, body, text string, resolve func(string) (string, bool)) string {
	path, ok := resolve(strings.TrimSpace(text))
	if !ok || open != "<code>" {
		return open + body
	}
	return `<code class="file-ref" data-path="` + html.EscapeString(path) + `">` + body
}

func tagName(z *html.Tokenizer) string {
	name, _ := z.TagName()
	return string(name)
}

func hasClass(attrs []html.Attribute, class string) bool {
	for _, a := range attrs {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}
