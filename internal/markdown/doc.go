// Package markdown renders the restricted markdown dialect allowed in
// notification content.
//
// The dialect is intentionally small: headings, lists, links, blockquotes
// and horizontal rules. Emphasis, code spans, strikethrough and raw HTML
// are not part of it and pass through as literal text; images and tables
// are dropped entirely. Each output flavor (email HTML, plain text, letter
// preview, email preheader) has its own renderer over a shared goldmark
// parser.
package markdown
