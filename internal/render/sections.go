package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dgallion1/kitesidebar/internal/dom"
	"github.com/dgallion1/kitesidebar/internal/nav"
	"github.com/dgallion1/kitesidebar/internal/report"
)

var markdown = goldmark.New()

func header(name, label string) *html.Node {
	return section("header",
		el(atom.H4, nil,
			classed(atom.Span, "name", text(name)),
			text(" "),
			classed(atom.Span, "kind", text(label)),
		),
	)
}

// memberLabel appends "()" to callables so they read like calls.
func memberLabel(m report.Member) string {
	if m.Kind() == report.KindFunction {
		return m.Name + "()"
	}
	return m.Name
}

func memberItem(m report.Member) *html.Node {
	li := el(atom.Li, nil,
		anchor(nav.CommandFor(nav.KindMember, string(m.ID)), text(memberLabel(m))),
		text(" "),
		classed(atom.Span, "type", text(string(m.Kind()))),
	)
	if s := m.Synopsis(); s != "" {
		li.AppendChild(el(atom.P, nil, text(s)))
	}
	return li
}

func more(kind nav.Kind, id string, label string) *html.Node {
	return classed(atom.Div, "more", anchor(nav.CommandFor(kind, id), text(label)))
}

func members(valueID string, ms []report.Member, total int) *html.Node {
	sec := section("members")
	if len(ms) == 0 {
		return sec
	}
	sec.AppendChild(heading("Members"))
	ul := el(atom.Ul, nil)
	for _, m := range ms {
		ul.AppendChild(memberItem(m))
	}
	sec.AppendChild(ul)
	if total > len(ms) {
		sec.AppendChild(more(nav.KindMembersList, valueID, fmt.Sprintf("See all %d members", total)))
	}
	return sec
}

func parameterItem(prefix string, p report.Parameter) *html.Node {
	li := el(atom.Li, nil, classed(atom.Code, "parameter-name", text(prefix+p.Name)))
	if types := typeList(p.InferredValue); types != "" {
		li.AppendChild(text(" "))
		li.AppendChild(classed(atom.Span, "type", text(types)))
	}
	if len(p.DefaultValue) > 0 {
		li.AppendChild(text(" "))
		li.AppendChild(classed(atom.Span, "default", text("="+p.DefaultValue[0].Repr)))
	}
	if p.Synopsis != "" {
		li.AppendChild(el(atom.P, nil, text(p.Synopsis)))
	}
	return li
}

func typeList(refs []report.TypeRef) string {
	names := make([]string, 0, len(refs))
	for _, r := range refs {
		if n := refName(r); n != "" {
			names = append(names, n)
		}
	}
	return strings.Join(names, " | ")
}

func refName(r report.TypeRef) string {
	if r.Type != "" {
		return r.Type
	}
	return r.Repr
}

func arguments(fd *report.FunctionDetails) *html.Node {
	sec := section("arguments")
	if fd == nil {
		return sec
	}
	ul := el(atom.Ul, nil)
	for _, p := range fd.Parameters {
		ul.AppendChild(parameterItem("", p))
	}
	if py := fd.LanguageDetails.Python; py != nil {
		if py.Vararg != nil {
			ul.AppendChild(parameterItem("*", *py.Vararg))
		}
		for _, p := range py.KwargParameters {
			ul.AppendChild(parameterItem("", p))
		}
		if py.Kwarg != nil {
			ul.AppendChild(parameterItem("**", *py.Kwarg))
		}
	}
	if ul.FirstChild == nil {
		return sec
	}
	sec.AppendChild(heading("Arguments"))
	sec.AppendChild(ul)
	if rt := typeList(fd.ReturnValue); rt != "" {
		sec.AppendChild(classed(atom.P, "returns", text("Returns "+rt)))
	}
	return sec
}

// signature is the parameter list shown in headers, e.g. "obj, skipkeys=bool, **kw".
func signature(fd *report.FunctionDetails) string {
	if fd == nil {
		return ""
	}
	parts := make([]string, 0, len(fd.Parameters)+2)
	for _, p := range fd.Parameters {
		s := p.Name
		if len(p.DefaultValue) > 0 {
			s += "=" + refName(p.DefaultValue[0])
		}
		parts = append(parts, s)
	}
	if py := fd.LanguageDetails.Python; py != nil {
		if py.Vararg != nil {
			parts = append(parts, "*"+py.Vararg.Name)
		}
		if py.Kwarg != nil {
			parts = append(parts, "**"+py.Kwarg.Name)
		}
	}
	return strings.Join(parts, ", ")
}

func docs(d report.Docs) (*html.Node, error) {
	sec := section("docs")

	src := d.DescriptionHTML
	if strings.TrimSpace(src) == "" && strings.TrimSpace(d.DescriptionText) != "" {
		var buf bytes.Buffer
		if err := markdown.Convert([]byte(d.DescriptionText), &buf); err != nil {
			return nil, fmt.Errorf("convert description markdown: %w", err)
		}
		src = buf.String()
	}
	if strings.TrimSpace(src) != "" {
		body, err := dom.ParseFragment(src)
		if err != nil {
			return nil, err
		}
		dom.Sanitize(body)
		body.Attr = []html.Attribute{{Key: "class", Val: "description"}}
		sec.AppendChild(heading("Description"))
		sec.AppendChild(body)
	}
	if def := d.Definition; def != nil && def.Filename != "" {
		sec.AppendChild(classed(atom.P, "definition", text(fmt.Sprintf("Defined in %s:%d", def.Filename, def.Line))))
	}
	return sec, nil
}

func examples(symbolID string, d report.Docs) *html.Node {
	sec := section("examples")
	if len(d.Examples) == 0 {
		return sec
	}
	sec.AppendChild(heading("Examples"))
	ul := el(atom.Ul, nil)
	for _, ex := range d.Examples {
		ul.AppendChild(el(atom.Li, nil, anchor(nav.CommandFor(nav.KindExample, string(ex.ID)), text(ex.Title))))
	}
	sec.AppendChild(ul)
	if d.TotalExamples > len(d.Examples) {
		sec.AppendChild(more(nav.KindExamplesList, symbolID, fmt.Sprintf("See all %d examples", d.TotalExamples)))
	}
	return sec
}

func usages(d report.Docs) *html.Node {
	sec := section("usages")
	if len(d.Usages) == 0 {
		return sec
	}
	sec.AppendChild(heading("Usages"))
	ul := el(atom.Ul, nil)
	for _, u := range d.Usages {
		li := el(atom.Li, nil, el(atom.Pre, nil, el(atom.Code, nil, text(u.Code))))
		if u.Filename != "" {
			li.AppendChild(classed(atom.Div, "usage-location", text(fmt.Sprintf("%s:%d", u.Filename, u.Line))))
		}
		ul.AppendChild(li)
	}
	sec.AppendChild(ul)
	return sec
}

func links(symbolID string, d report.Docs) *html.Node {
	sec := section("links")
	if len(d.Links) == 0 {
		return sec
	}
	sec.AppendChild(heading("Links"))
	ul := el(atom.Ul, nil)
	for _, l := range d.Links {
		ul.AppendChild(el(atom.Li, nil, anchor(safeURL(l.URL), text(l.Title))))
	}
	sec.AppendChild(ul)
	if d.TotalLinks > len(d.Links) {
		sec.AppendChild(more(nav.KindLinksList, symbolID, fmt.Sprintf("See all %d links", d.TotalLinks)))
	}
	return sec
}
