// Package urls maps sidebar identifiers onto kited endpoint paths.
package urls

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strings"

	"github.com/dgallion1/kitesidebar/internal/document"
	"github.com/dgallion1/kitesidebar/internal/nav"
)

// DefaultMembersLimit is the page size used when listing every member of a value.
const DefaultMembersLimit = 999

// PlanPath is the endpoint queried before any report request.
const PlanPath = "/clientapi/plan"

// SymbolReportPath is the full report for a symbol id.
func SymbolReportPath(id string) string {
	return "/api/editor/symbol/" + url.PathEscape(id)
}

// ValueReportPath is the value report (examples, links) for a value id.
func ValueReportPath(id string) string {
	return "/api/editor/value/" + url.PathEscape(id)
}

// MembersPath pages through the members of a value.
func MembersPath(id string, offset, limit int) string {
	if limit <= 0 {
		limit = DefaultMembersLimit
	}
	q := url.Values{}
	q.Set("offset", fmt.Sprint(max(offset, 0)))
	q.Set("limit", fmt.Sprint(limit))
	return ValueReportPath(id) + "/members?" + q.Encode()
}

// HoverPath is the hover report for the symbol under pos in doc.
func HoverPath(editor string, doc *document.Document, pos nav.Position) string {
	return fmt.Sprintf("/api/buffer/%s/%s/%s/hover?cursor_runes=%d",
		editor, CleanPath(doc.Filename), doc.Hash(), doc.OffsetAt(pos))
}

// HoverRangePath is HoverPath at the midpoint of r.
func HoverRangePath(editor string, doc *document.Document, r nav.Range) string {
	return HoverPath(editor, doc, Midpoint(r))
}

// Midpoint returns the position halfway between the ends of r, rounding
// halves up on each axis independently.
func Midpoint(r nav.Range) nav.Position {
	return nav.Position{
		Line:      roundHalfUp(r[0].Line, r[1].Line),
		Character: roundHalfUp(r[0].Character, r[1].Character),
	}
}

func roundHalfUp(a, b int) int {
	return int(math.Floor(float64(a+b)/2 + 0.5))
}

var driveLetter = regexp.MustCompile(`^([A-Za-z]):`)

// CleanPath flattens a filesystem path into a single URL segment the way the
// daemon expects: separators become ':' and Windows drives become
// "/windows/<DRIVE>".
func CleanPath(p string) string {
	if m := driveLetter.FindStringSubmatch(p); m != nil {
		p = "/windows/" + strings.ToUpper(m[1]) + p[len(m[0]):]
	}
	parts := strings.FieldsFunc(p, func(r rune) bool { return r == '/' || r == '\\' })
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return ":" + strings.Join(parts, ":")
}
