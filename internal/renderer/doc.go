// Package renderer wraps rendered notification bodies in their
// presentation skeletons: the preview boxes shown in the admin interface,
// the full HTML email document, and the letter preview page. Bodies arrive
// already escaped and formatted, so the skeletons are plain text templates
// that never re-escape their input.
package renderer
