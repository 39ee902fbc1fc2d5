package markdown

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// letterRenderer produces the bare HTML used by letter previews and print
// files. The print stylesheet supplies presentation, so there are no inline
// styles, and links become bold text because paper cannot be clicked.
type letterRenderer struct{}

func (r *letterRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
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

func (r *letterRenderer) renderParagraph(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString("<p>")
	} else {
		_, _ = w.WriteString("</p>")
	}
	return ast.WalkContinue, nil
}

func (r *letterRenderer) renderHeading(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	h := n.(*ast.Heading)
	if h.Level == 1 {
		if entering {
			_, _ = w.WriteString("<h2>")
		} else {
			_, _ = w.WriteString("</h2>\n")
		}
		return ast.WalkContinue, nil
	}
	return r.renderParagraph(w, source, n, entering)
}

// A rule forces a page break in print.
func (r *letterRenderer) renderThematicBreak(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString(`<div class="page-break">&nbsp;</div>`)
	}
	return ast.WalkContinue, nil
}

func (r *letterRenderer) renderList(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	tag := "ul"
	if n.(*ast.List).IsOrdered() {
		tag = "ol"
	}
	if entering {
		_, _ = w.WriteString("<" + tag + ">\n")
	} else {
		_, _ = w.WriteString("</" + tag + ">")
		if !insideListItem(n) {
			_, _ = w.WriteString("\n")
		}
	}
	return ast.WalkContinue, nil
}

func (r *letterRenderer) renderListItem(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString("<li>")
	} else {
		_, _ = w.WriteString("</li>\n")
	}
	return ast.WalkContinue, nil
}

func (r *letterRenderer) renderText(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	t := n.(*ast.Text)
	_, _ = w.Write(t.Segment.Value(source))
	if t.SoftLineBreak() || t.HardLineBreak() {
		_, _ = w.WriteString("<br>")
	}
	return ast.WalkContinue, nil
}

func (r *letterRenderer) renderLink(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	l := n.(*ast.Link)
	if label := nodeText(n, source); label != "" {
		_, _ = w.WriteString(label)
		_, _ = w.WriteString(": ")
	}
	_, _ = w.WriteString("<strong>")
	_, _ = w.WriteString(stripScheme(string(l.Destination)))
	_, _ = w.WriteString("</strong>")
	return ast.WalkSkipChildren, nil
}

func (r *letterRenderer) renderAutoLink(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		url := string(n.(*ast.AutoLink).URL(source))
		_, _ = w.WriteString("<strong>")
		_, _ = w.WriteString(stripScheme(url))
		_, _ = w.WriteString("</strong>")
	}
	return ast.WalkSkipChildren, nil
}
