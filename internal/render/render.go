// Package render turns kited reports into HTML fragments for the sidebar.
package render

import (
	"fmt"

	"golang.org/x/net/html"

	"github.com/dgallion1/kitesidebar/internal/report"
)

// RenderError is a report that parsed but cannot be rendered. Callers log it
// and show an empty panel instead of failing.
type RenderError struct {
	Reason string
}

func (e *RenderError) Error() string {
	return "render report: " + e.Reason
}

// Report renders r with the renderer that matches the kind of its first
// value. Unrecognised kinds render as "".
func Report(r *report.Report) (out string, err error) {
	defer func() {
		if p := recover(); p != nil {
			out, err = "", &RenderError{Reason: fmt.Sprint(p)}
		}
	}()

	v, ok := r.Value()
	if !ok {
		return "", &RenderError{Reason: "report has no symbol value"}
	}
	switch v.Kind {
	case report.KindModule, report.KindType:
		return Module(r)
	case report.KindFunction:
		return Function(r)
	case report.KindInstance, report.KindUnknown:
		return Instance(r)
	default:
		return "", nil
	}
}

func primary(r *report.Report) (*report.Value, error) {
	v, ok := r.Value()
	if !ok {
		return nil, &RenderError{Reason: "report has no symbol value"}
	}
	return v, nil
}

func symbolID(r *report.Report, v *report.Value) string {
	if r.Symbol.ID != "" {
		return string(r.Symbol.ID)
	}
	return string(v.ID)
}

func valueID(r *report.Report, v *report.Value) string {
	if v.ID != "" {
		return string(v.ID)
	}
	return string(r.Symbol.ID)
}

func displayName(r *report.Report, v *report.Value) string {
	switch {
	case v.Repr != "":
		return v.Repr
	case r.Symbol.Name != "":
		return r.Symbol.Name
	default:
		return string(r.Symbol.ID)
	}
}

func constructor(v *report.Value) *report.FunctionDetails {
	t := v.Details.Type
	if t == nil || t.LanguageDetails.Python == nil {
		return nil
	}
	return t.LanguageDetails.Python.Constructor
}

// Module renders modules and types: header, constructor arguments for
// types, members, docs, examples and links.
func Module(r *report.Report) (string, error) {
	v, err := primary(r)
	if err != nil {
		return "", err
	}

	name := displayName(r, v)
	var ms []report.Member
	var total int
	var args *html.Node
	switch {
	case v.Details.Module != nil:
		ms, total = v.Details.Module.Members, v.Details.Module.TotalMembers
	case v.Details.Type != nil:
		ms, total = v.Details.Type.Members, v.Details.Type.TotalMembers
	}
	if v.Kind == report.KindType {
		ctor := constructor(v)
		if ctor != nil {
			name += "(" + signature(ctor) + ")"
		}
		args = arguments(ctor)
	}

	d, err := docs(r.Report)
	if err != nil {
		return "", err
	}
	id := symbolID(r, v)
	return toString(
		header(name, string(v.Kind)),
		args,
		members(valueID(r, v), ms, total),
		d,
		examples(id, r.Report),
		links(id, r.Report),
	)
}

// Function renders callables: header with signature, arguments, docs,
// usages, examples and links.
func Function(r *report.Report) (string, error) {
	v, err := primary(r)
	if err != nil {
		return "", err
	}

	fd := v.Details.Function
	d, err := docs(r.Report)
	if err != nil {
		return "", err
	}
	id := symbolID(r, v)
	return toString(
		header(displayName(r, v)+"("+signature(fd)+")", string(report.KindFunction)),
		arguments(fd),
		d,
		usages(r.Report),
		examples(id, r.Report),
		links(id, r.Report),
	)
}

// Instance renders instances and values of unknown kind: header, docs and usages.
func Instance(r *report.Report) (string, error) {
	v, err := primary(r)
	if err != nil {
		return "", err
	}

	name := r.Symbol.Name
	if name == "" {
		name = displayName(r, v)
	}
	d, err := docs(r.Report)
	if err != nil {
		return "", err
	}
	return toString(
		header(name, instanceLabel(v)),
		d,
		usages(r.Report),
	)
}

func instanceLabel(v *report.Value) string {
	if v.Type != "" {
		return v.Type
	}
	if inst := v.Details.Instance; inst != nil {
		if t := typeList(inst.Type); t != "" {
			return t
		}
	}
	if v.Kind == "" {
		return string(report.KindUnknown)
	}
	return string(v.Kind)
}
