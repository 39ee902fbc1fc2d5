package markdown

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Bare URLs are linkified for http and https only; www. shorthand and
// email addresses stay plain text.
var (
	urlPattern = regexp.MustCompile(`https?://[^\s<]*[^\s<.,:;"')\]]`)
	neverMatch = regexp.MustCompile(`\x00never`)
)

func newEngine(r renderer.NodeRenderer, rawHTML bool) goldmark.Markdown {
	inline := []util.PrioritizedValue{
		util.Prioritized(parser.NewLinkParser(), 200),
		util.Prioritized(parser.NewAutoLinkParser(), 300),
		util.Prioritized(extension.NewLinkifyParser(
			extension.WithLinkifyURLRegexp(urlPattern),
			extension.WithLinkifyWWWRegexp(neverMatch),
			extension.WithLinkifyEmailRegexp(neverMatch),
		), 500),
	}
	// The email flavor tokenises tags so that surrounding text can be
	// escaped while the tags themselves pass through untouched. The other
	// flavors emit text verbatim and have no need to tell the two apart.
	if rawHTML {
		inline = append(inline, util.Prioritized(parser.NewRawHTMLParser(), 400))
	}
	return goldmark.New(
		goldmark.WithParser(parser.NewParser(
			parser.WithBlockParsers(
				util.Prioritized(parser.NewThematicBreakParser(), 200),
				util.Prioritized(parser.NewListParser(), 300),
				util.Prioritized(parser.NewListItemParser(), 400),
				util.Prioritized(parser.NewFencedCodeBlockParser(), 700),
				util.Prioritized(parser.NewBlockquoteParser(), 800),
				util.Prioritized(parser.NewATXHeadingParser(), 900),
				util.Prioritized(parser.NewParagraphParser(), 1000),
			),
			parser.WithInlineParsers(inline...),
			parser.WithASTTransformers(
				util.Prioritized(pruneTransformer{}, 999),
			),
		)),
		goldmark.WithRenderer(renderer.NewRenderer(
			renderer.WithNodeRenderers(util.Prioritized(r, 100)),
		)),
		goldmark.WithExtensions(extension.Table),
	)
}

var (
	emailEngine     = newEngine(&emailRenderer{}, true)
	plainEngine     = newEngine(&plainRenderer{}, false)
	preheaderEngine = newEngine(&plainRenderer{preheader: true}, false)
	letterEngine    = newEngine(&letterRenderer{}, false)
)

// EmailHTML renders content as the inline-styled HTML email body.
func EmailHTML(s string) string { return render(emailEngine, s) }

// PlainText renders content as the plain text email body.
func PlainText(s string) string { return render(plainEngine, s) }

// Preheader renders content as single-purpose text for the hidden email
// preheader: headings and list items flattened, links reduced to their
// label.
func Preheader(s string) string { return render(preheaderEngine, s) }

// LetterPreview renders content as the minimal HTML used inside letter
// previews and print files.
func LetterPreview(s string) string { return render(letterEngine, s) }

func render(md goldmark.Markdown, s string) string {
	var buf bytes.Buffer
	_ = md.Convert([]byte(preprocess(s)), &buf)
	return buf.String()
}

var (
	thematicLine    = regexp.MustCompile(`^(\*{3,}|-{3,})\s*$`)
	blockquoteCaret = regexp.MustCompile(`^\s*\^\s*`)
	headingNoSpace  = regexp.MustCompile(`^(#{1,6})([^#\s])`)
	bulletDot       = regexp.MustCompile(`^•\s*`)
	bulletNoSpace   = regexp.MustCompile(`^\*(\S)`)
	orderedNoSpace  = regexp.MustCompile(`^(\d+)\.(\S)`)
	plusBullet      = regexp.MustCompile(`^\+(\s+\S)`)
)

// preprocess rewrites the looser syntax users actually type into strict
// commonmark: "#heading", "1.one", "*one", "• one" and "^ quote" all work.
// Lines bulleted with "+" are not lists; they become their own paragraphs.
func preprocess(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines)+4)
	for _, line := range lines {
		switch {
		case thematicLine.MatchString(line):
		case blockquoteCaret.MatchString(line):
			line = blockquoteCaret.ReplaceAllString(line, "> ")
		case headingNoSpace.MatchString(line):
			line = headingNoSpace.ReplaceAllString(line, "$1 $2")
		case bulletDot.MatchString(line):
			line = bulletDot.ReplaceAllString(line, "* ")
		case bulletNoSpace.MatchString(line):
			line = bulletNoSpace.ReplaceAllString(line, "* $1")
		case orderedNoSpace.MatchString(line):
			line = orderedNoSpace.ReplaceAllString(line, "$1. $2")
		case plusBullet.MatchString(line):
			out = append(out, plusBullet.ReplaceAllString(line, `\+$1`), "")
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// pruneTransformer drops the node types the dialect does not render at all:
// images, tables, and any paragraph left empty by those removals.
type pruneTransformer struct{}

func (pruneTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	var doomed []ast.Node
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind().String() {
		case "Image", "Table":
			doomed = append(doomed, n)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	for _, n := range doomed {
		n.Parent().RemoveChild(n.Parent(), n)
	}
	// Second pass for paragraphs emptied by the removals.
	var empty []ast.Node
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering && n.Kind() == ast.KindParagraph && n.ChildCount() == 0 {
			empty = append(empty, n)
		}
		return ast.WalkContinue, nil
	})
	for _, n := range empty {
		n.Parent().RemoveChild(n.Parent(), n)
	}
}

// nodeText flattens the inline text of a node, for link labels.
func nodeText(n ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(source))
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

var entityRef = regexp.MustCompile(`^#?\w+;`)

// smartEscape escapes markup characters in text without double-escaping
// entities that are already encoded.
func smartEscape(s string) string {
	if !strings.ContainsAny(s, "&<>") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 16)
	for i, r := range s {
		switch r {
		case '&':
			if entityRef.MatchString(s[i+1:]) {
				b.WriteByte('&')
			} else {
				b.WriteString("&amp;")
			}
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// stripScheme reduces a URL to its display form for letters.
func stripScheme(url string) string {
	url = strings.TrimPrefix(url, "https://")
	url = strings.TrimPrefix(url, "http://")
	return url
}

func writeCodeLines(w util.BufWriter, source []byte, n ast.Node) {
	var b bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(source))
	}
	_, _ = w.Write(bytes.TrimRight(b.Bytes(), "\n"))
}

func listItemIndex(n ast.Node) int {
	i := 1
	for s := n.PreviousSibling(); s != nil; s = s.PreviousSibling() {
		i++
	}
	return i
}

func insideListItem(n ast.Node) bool {
	return n.Parent() != nil && n.Parent().Kind() == ast.KindListItem
}
