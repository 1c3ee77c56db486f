// Package router resolves the sidebar's current navigation step into HTML.
package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dgallion1/kitesidebar/internal/document"
	"github.com/dgallion1/kitesidebar/internal/nav"
	"github.com/dgallion1/kitesidebar/internal/render"
	"github.com/dgallion1/kitesidebar/internal/report"
	"github.com/dgallion1/kitesidebar/internal/urls"
)

// Requester performs a single GET against the documentation daemon.
type Requester interface {
	Request(ctx context.Context, path string) ([]byte, error)
}

// Gate is the availability check that must pass before any request.
type Gate interface {
	Available(ctx context.Context) error
}

// DocumentSource supplies the editor document for position lookups.
type DocumentSource interface {
	ActiveDocument(ctx context.Context) (*document.Document, error)
}

// ErrorPolicy decides what a failed lookup does.
type ErrorPolicy string

const (
	// Propagate returns the error to the caller.
	Propagate ErrorPolicy = "propagate"
	// Ignore logs the error and yields an empty result.
	Ignore ErrorPolicy = "ignore"
)

// ParseErrorPolicy validates a policy name.
func ParseErrorPolicy(s string) (ErrorPolicy, error) {
	switch p := ErrorPolicy(s); p {
	case Propagate, Ignore:
		return p, nil
	}
	return "", fmt.Errorf("unknown error policy %q (want %q or %q)", s, Propagate, Ignore)
}

// Options tune the router. Zero values are replaced by defaults.
type Options struct {
	Editor       string
	MembersLimit int
	// SymbolErrors applies to id-addressed lookups (member, link, value, lists).
	SymbolErrors ErrorPolicy
	// HoverErrors applies to position and range lookups.
	HoverErrors ErrorPolicy
}

func (o Options) withDefaults() Options {
	if o.Editor == "" {
		o.Editor = "vscode"
	}
	if o.MembersLimit <= 0 {
		o.MembersLimit = urls.DefaultMembersLimit
	}
	if o.SymbolErrors == "" {
		o.SymbolErrors = Propagate
	}
	if o.HoverErrors == "" {
		o.HoverErrors = Ignore
	}
	return o
}

type handler func(ctx context.Context, step nav.Step) (string, error)

type route struct {
	kind   nav.Kind
	policy ErrorPolicy
	handle handler
}

// Router holds the current navigation step and renders it on demand.
type Router struct {
	client Requester
	gate   Gate
	docs   DocumentSource
	log    *slog.Logger
	opts   Options
	routes []route

	mu      sync.Mutex
	current *nav.Step
}

// New builds a router. docs may be nil, in which case position lookups fail
// with document.ErrNoActiveDocument.
func New(client Requester, gate Gate, docs DocumentSource, log *slog.Logger, opts Options) *Router {
	r := &Router{
		client: client,
		gate:   gate,
		docs:   docs,
		log:    log,
		opts:   opts.withDefaults(),
	}
	sym, hover := r.opts.SymbolErrors, r.opts.HoverErrors
	r.routes = []route{
		{nav.KindMember, sym, r.symbolReport},
		{nav.KindLink, sym, r.symbolReport},
		{nav.KindValue, sym, r.symbolReport},
		{nav.KindValueRange, hover, r.hoverRange},
		{nav.KindValuePosition, hover, r.hoverPosition},
		{nav.KindMembersList, sym, r.membersList},
		{nav.KindExamplesList, sym, r.examplesList},
		{nav.KindLinksList, sym, r.linksList},
	}
	return r
}

// RegisterNavigationStep makes step the current step, replacing any previous one.
func (r *Router) RegisterNavigationStep(step nav.Step) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = &step
}

// Navigate parses raw as a navigation URI and registers it.
func (r *Router) Navigate(raw string) (nav.Step, error) {
	step, err := nav.Parse(raw)
	if err != nil {
		return nav.Step{}, err
	}
	r.RegisterNavigationStep(step)
	return step, nil
}

// Current returns the current step, if any.
func (r *Router) Current() (nav.Step, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return nav.Step{}, false
	}
	return *r.current, true
}

// ProvideTextDocumentContent renders the current step. With no step, or a
// step no route handles, it returns "".
func (r *Router) ProvideTextDocumentContent(ctx context.Context) (string, error) {
	step, ok := r.Current()
	if !ok {
		return "", nil
	}
	return r.Resolve(ctx, step)
}

// Resolve renders step without touching the current step.
func (r *Router) Resolve(ctx context.Context, step nav.Step) (string, error) {
	for _, rt := range r.routes {
		if rt.kind != step.Kind {
			continue
		}
		out, err := rt.handle(ctx, step)
		return r.settle(rt.policy, step, out, err)
	}
	r.log.Debug("no route for navigation step", "step", step.String())
	return "", nil
}

func (r *Router) settle(policy ErrorPolicy, step nav.Step, out string, err error) (string, error) {
	if err == nil {
		return out, nil
	}
	var renderErr *render.RenderError
	if errors.As(err, &renderErr) {
		r.log.Error("render failed", "step", step.String(), "error", err)
		return "", nil
	}
	if policy == Ignore {
		r.log.Warn("lookup failed", "step", step.String(), "error", err)
		return "", nil
	}
	return "", err
}

// fetch runs the availability gate and then requests path.
func (r *Router) fetch(ctx context.Context, path string) ([]byte, error) {
	if err := r.gate.Available(ctx); err != nil {
		return nil, err
	}
	data, err := r.client.Request(ctx, path)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (r *Router) requireID(step nav.Step) error {
	if step.ID == "" {
		return &nav.StepError{Input: step.String(), Reason: "missing id"}
	}
	return nil
}

func (r *Router) symbolReport(ctx context.Context, step nav.Step) (string, error) {
	if err := r.requireID(step); err != nil {
		return "", err
	}
	data, err := r.fetch(ctx, urls.SymbolReportPath(step.ID))
	if err != nil {
		return "", err
	}
	rep, err := report.ParseSymbolReport(data, step.ID)
	if err != nil {
		return "", err
	}
	return render.Report(rep)
}

func (r *Router) activeDocument(ctx context.Context) (*document.Document, error) {
	if r.docs == nil {
		return nil, document.ErrNoActiveDocument
	}
	return r.docs.ActiveDocument(ctx)
}

func (r *Router) hoverRange(ctx context.Context, step nav.Step) (string, error) {
	if step.Range == nil {
		return "", &nav.StepError{Input: step.String(), Reason: "missing range"}
	}
	return r.hover(ctx, func(doc *document.Document) string {
		return urls.HoverRangePath(r.opts.Editor, doc, *step.Range)
	})
}

func (r *Router) hoverPosition(ctx context.Context, step nav.Step) (string, error) {
	if step.Position == nil {
		return "", &nav.StepError{Input: step.String(), Reason: "missing position"}
	}
	return r.hover(ctx, func(doc *document.Document) string {
		return urls.HoverPath(r.opts.Editor, doc, *step.Position)
	})
}

func (r *Router) hover(ctx context.Context, path func(*document.Document) string) (string, error) {
	doc, err := r.activeDocument(ctx)
	if err != nil {
		return "", err
	}
	data, err := r.fetch(ctx, path(doc))
	if err != nil {
		return "", err
	}
	rep, err := report.ParseHoverReport(data)
	if err != nil {
		return "", err
	}
	return render.Report(rep)
}

func (r *Router) membersList(ctx context.Context, step nav.Step) (string, error) {
	if err := r.requireID(step); err != nil {
		return "", err
	}
	data, err := r.fetch(ctx, urls.MembersPath(step.ID, 0, r.opts.MembersLimit))
	if err != nil {
		return "", err
	}
	mr, err := report.ParseMembersReport(data)
	if err != nil {
		return "", err
	}
	return render.MembersList(mr)
}

func (r *Router) valueReport(ctx context.Context, step nav.Step) (*report.ValueReport, error) {
	if err := r.requireID(step); err != nil {
		return nil, err
	}
	data, err := r.fetch(ctx, urls.ValueReportPath(step.ID))
	if err != nil {
		return nil, err
	}
	return report.ParseValueReport(data, step.ID)
}

func (r *Router) examplesList(ctx context.Context, step nav.Step) (string, error) {
	vr, err := r.valueReport(ctx, step)
	if err != nil {
		return "", err
	}
	return render.ExamplesList(vr)
}

func (r *Router) linksList(ctx context.Context, step nav.Step) (string, error) {
	vr, err := r.valueReport(ctx, step)
	if err != nil {
		return "", err
	}
	return render.LinksList(vr)
}
