package render

import (
	"fmt"

	"golang.org/x/net/html/atom"

	"github.com/dgallion1/kitesidebar/internal/nav"
	"github.com/dgallion1/kitesidebar/internal/report"
)

// MembersList renders every member of a value, one list item each.
func MembersList(mr *report.MembersReport) (string, error) {
	ul := el(atom.Ul, nil)
	for _, m := range mr.Members {
		ul.AppendChild(memberItem(m))
	}
	return toString(section("members-list", heading(fmt.Sprintf("Members (%d)", mr.Total)), ul))
}

// ExamplesList renders every example of a value as a link to the example.
func ExamplesList(vr *report.ValueReport) (string, error) {
	ul := el(atom.Ul, nil)
	for _, ex := range vr.Report.Examples {
		ul.AppendChild(el(atom.Li, nil, anchor(nav.CommandFor(nav.KindExample, string(ex.ID)), text(ex.Title))))
	}
	return toString(section("examples-list", heading("Examples"), ul))
}

// LinksList renders every external link of a value.
func LinksList(vr *report.ValueReport) (string, error) {
	ul := el(atom.Ul, nil)
	for _, l := range vr.Report.Links {
		li := el(atom.Li, nil, anchor(safeURL(l.URL), text(l.Title)))
		if l.Snippet != "" {
			li.AppendChild(classed(atom.P, "snippet", text(l.Snippet)))
		}
		ul.AppendChild(li)
	}
	return toString(section("links-list", heading("Links"), ul))
}
