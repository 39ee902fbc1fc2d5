package markdown

import (
	"strconv"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"

	"notifykit/internal/pipeline"
)

// Inline styles, not classes. Email clients strip <style> blocks so every
// element carries its own presentation.
const (
	emailParagraph  = `<p style="Margin: 0 0 20px 0; font-size: 19px; line-height: 25px; color: #0B0C0C;">`
	emailHeading    = `<h2 style="Margin: 0 0 20px 0; padding: 0; font-size: 27px; line-height: 35px; font-weight: bold; color: #0B0C0C;">`
	emailRule       = `<hr style="border: 0; height: 1px; background: #B1B4B6; Margin: 30px 0 30px 0;">`
	emailBlockquote = `<blockquote style="Margin: 0 0 20px 0; border-left: 10px solid #B1B4B6;` +
		`padding: 15px 0 0.1px 15px; font-size: 19px; line-height: 25px;">`
	emailListTable = `<table role="presentation" style="padding: 0 0 20px 0;">` +
		`<tr><td style="font-family: Helvetica, Arial, sans-serif;">`
	emailOrderedList   = `<ol style="Margin: 0 0 0 20px; padding: 0; list-style-type: decimal;">`
	emailUnorderedList = `<ul style="Margin: 0 0 0 20px; padding: 0; list-style-type: disc;">`
	emailListItem      = `<li style="Margin: 5px 0 5px; padding: 0 0 0 5px; font-size: 19px;` +
		`line-height: 25px; color: #0B0C0C;">`
	anchorOpen = `<a style="word-wrap: break-word; color: #1D70B8;" href="`
)

type emailRenderer struct{}

func (r *emailRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindDocument, renderNothing)
	reg.Register(ast.KindTextBlock, renderNothing)
	reg.Register(ast.KindImage, renderSkip)
	reg.Register(ast.KindParagraph, r.renderParagraph)
	reg.Register(ast.KindHeading, r.renderHeading)
	reg.Register(ast.KindThematicBreak, r.renderThematicBreak)
	reg.Register(ast.KindBlockquote, r.renderBlockquote)
	reg.Register(ast.KindList, r.renderList)
	reg.Register(ast.KindListItem, r.renderListItem)
	reg.Register(ast.KindFencedCodeBlock, renderCodeBlock)
	reg.Register(ast.KindText, r.renderText)
	reg.Register(ast.KindString, renderString)
	reg.Register(ast.KindRawHTML, renderRawHTML)
	reg.Register(ast.KindLink, r.renderLink)
	reg.Register(ast.KindAutoLink, r.renderAutoLink)
}

func (r *emailRenderer) renderParagraph(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString(emailParagraph)
	} else {
		_, _ = w.WriteString("</p>")
	}
	return ast.WalkContinue, nil
}

// Level one headings are the only real headings; deeper levels render as
// ordinary paragraphs.
func (r *emailRenderer) renderHeading(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	h := n.(*ast.Heading)
	if h.Level == 1 {
		if entering {
			_, _ = w.WriteString(emailHeading)
		} else {
			_, _ = w.WriteString("</h2>")
		}
		return ast.WalkContinue, nil
	}
	return r.renderParagraph(w, source, n, entering)
}

func (r *emailRenderer) renderThematicBreak(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString(emailRule)
	}
	return ast.WalkContinue, nil
}

func (r *emailRenderer) renderBlockquote(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString(emailBlockquote)
	} else {
		_, _ = w.WriteString("</blockquote>")
	}
	return ast.WalkContinue, nil
}

func (r *emailRenderer) renderList(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	l := n.(*ast.List)
	top := !insideListItem(n)
	if entering {
		if top {
			_, _ = w.WriteString(emailListTable)
		}
		if l.IsOrdered() {
			_, _ = w.WriteString(emailOrderedList)
		} else {
			_, _ = w.WriteString(emailUnorderedList)
		}
		return ast.WalkContinue, nil
	}
	if l.IsOrdered() {
		_, _ = w.WriteString("</ol>")
	} else {
		_, _ = w.WriteString("</ul>")
	}
	if top {
		_, _ = w.WriteString("</td></tr></table>")
	}
	return ast.WalkContinue, nil
}

func (r *emailRenderer) renderListItem(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString(emailListItem)
	} else {
		_, _ = w.WriteString("</li>")
	}
	return ast.WalkContinue, nil
}

func (r *emailRenderer) renderText(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	t := n.(*ast.Text)
	_, _ = w.WriteString(smartEscape(string(t.Segment.Value(source))))
	if t.SoftLineBreak() || t.HardLineBreak() {
		_, _ = w.WriteString("<br />")
	}
	return ast.WalkContinue, nil
}

func renderRawHTML(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkSkipChildren, nil
	}
	h := n.(*ast.RawHTML)
	for i := 0; i < h.Segments.Len(); i++ {
		seg := h.Segments.At(i)
		_, _ = w.Write(seg.Value(source))
	}
	return ast.WalkSkipChildren, nil
}

func (r *emailRenderer) renderLink(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	l := n.(*ast.Link)
	if entering {
		_, _ = w.WriteString(anchorOpen)
		_, _ = w.WriteString(pipeline.EscapeHref(string(l.Destination)))
		_, _ = w.WriteString(`"`)
		if len(l.Title) > 0 {
			_, _ = w.WriteString(` title="`)
			_, _ = w.Write(l.Title)
			_, _ = w.WriteString(`"`)
		}
		_, _ = w.WriteString(`>`)
	} else {
		_, _ = w.WriteString("</a>")
	}
	return ast.WalkContinue, nil
}

func (r *emailRenderer) renderAutoLink(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	url := string(n.(*ast.AutoLink).URL(source))
	_, _ = w.WriteString(anchorOpen)
	_, _ = w.WriteString(pipeline.EscapeHref(url))
	_, _ = w.WriteString(`">`)
	_, _ = w.WriteString(smartEscape(url))
	_, _ = w.WriteString("</a>")
	return ast.WalkSkipChildren, nil
}

func renderNothing(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	return ast.WalkContinue, nil
}

func renderSkip(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	return ast.WalkSkipChildren, nil
}

func renderString(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.Write(n.(*ast.String).Value)
	}
	return ast.WalkContinue, nil
}

// Code fences are not part of the dialect; their contents pass through as
// unwrapped text.
func renderCodeBlock(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		writeCodeLines(w, source, n)
	}
	return ast.WalkSkipChildren, nil
}

func formatOrdinal(i int) string {
	return strconv.Itoa(i) + ". "
}
