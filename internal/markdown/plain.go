package markdown

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

const underlineWidth = 65

// plainRenderer produces the plain text email body. Every block starts with
// a blank line so bodies can be concatenated after greetings and signatures.
// In preheader mode the output is flattened further: headings lose their
// underline and links reduce to their label, since the text is normalised to
// a single line afterwards.
type plainRenderer struct {
	preheader bool
}

func (r *plainRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindDocument, renderNothing)
	reg.Register(ast.KindTextBlock, renderNothing)
	reg.Register(ast.KindBlockquote, renderNothing)
	reg.Register(ast.KindImage, renderSkip)
	reg.Register(ast.KindParagraph, r.renderParagraph)
	reg.Register(ast.KindHeading, r.renderHeading)
	reg.Register(ast.KindThematicBreak, r.renderThematicBreak)
	reg.Register(ast.KindList, r.renderList)
	reg.Register(ast.KindListItem, r.renderListItem)
	reg.Register(ast.KindFencedCodeBlock, renderCodeBlock)
	reg.Register(ast.KindText, r.renderText)
	reg.Register(ast.KindString, renderString)
	reg.Register(ast.KindLink, r.renderLink)
	reg.Register(ast.KindAutoLink, r.renderAutoLink)
}

func (r *plainRenderer) renderParagraph(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString("\n\n")
	}
	return ast.WalkContinue, nil
}

func (r *plainRenderer) renderHeading(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	h := n.(*ast.Heading)
	if r.preheader || h.Level > 1 {
		return r.renderParagraph(w, source, n, entering)
	}
	if entering {
		_, _ = w.WriteString("\n\n\n")
	} else {
		_, _ = w.WriteString("\n")
		_, _ = w.WriteString(strings.Repeat("-", underlineWidth))
	}
	return ast.WalkContinue, nil
}

func (r *plainRenderer) renderThematicBreak(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString("\n\n")
		if !r.preheader {
			_, _ = w.WriteString(strings.Repeat("=", underlineWidth))
		}
	}
	return ast.WalkContinue, nil
}

func (r *plainRenderer) renderList(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString("\n")
	}
	return ast.WalkContinue, nil
}

// Ordered items are renumbered from one regardless of the numbers typed.
func (r *plainRenderer) renderListItem(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString("\n")
	if n.Parent().(*ast.List).IsOrdered() {
		_, _ = w.WriteString(formatOrdinal(listItemIndex(n)))
	} else {
		_, _ = w.WriteString("• ")
	}
	return ast.WalkContinue, nil
}

func (r *plainRenderer) renderText(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	t := n.(*ast.Text)
	_, _ = w.Write(t.Segment.Value(source))
	if t.SoftLineBreak() || t.HardLineBreak() {
		_, _ = w.WriteString("\n")
	}
	return ast.WalkContinue, nil
}

func (r *plainRenderer) renderLink(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	l := n.(*ast.Link)
	label := nodeText(n, source)
	_, _ = w.WriteString(label)
	if r.preheader {
		return ast.WalkSkipChildren, nil
	}
	if len(l.Title) > 0 {
		_, _ = w.WriteString(" (")
		_, _ = w.Write(l.Title)
		_, _ = w.WriteString(")")
	}
	if label != "" {
		_, _ = w.WriteString(": ")
	}
	_, _ = w.Write(l.Destination)
	return ast.WalkSkipChildren, nil
}

func (r *plainRenderer) renderAutoLink(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.Write(n.(*ast.AutoLink).URL(source))
	}
	return ast.WalkSkipChildren, nil
}
