package nav

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Scheme is the URI scheme of sidebar navigation steps.
const Scheme = "kite-vscode-sidebar"

// CommandPrefix starts every in-panel link that navigates the sidebar.
const CommandPrefix = "command:kite.navigate?"

// Kind is the route discriminator of a navigation step.
type Kind string

const (
	KindMember        Kind = "member"
	KindLink          Kind = "link"
	KindValue         Kind = "value"
	KindValueRange    Kind = "value-range"
	KindValuePosition Kind = "value-position"
	KindMembersList   Kind = "members-list"
	KindExamplesList  Kind = "examples-list"
	KindLinksList     Kind = "links-list"
	KindExample       Kind = "example"
)

// ErrMalformedStep is wrapped by every StepError.
var ErrMalformedStep = errors.New("malformed navigation step")

// StepError reports a navigation step that failed to parse.
type StepError struct {
	Input  string
	Reason string
}

func (e *StepError) Error() string {
	return fmt.Sprintf("navigation step %q: %s", e.Input, e.Reason)
}

func (e *StepError) Unwrap() error {
	return ErrMalformedStep
}

// Position is a zero-based line/character location in a document.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range is a start/end pair of positions.
type Range [2]Position

// Step is a single navigation action inside the sidebar. Exactly one of ID,
// Position or Range is meaningful, depending on Kind.
type Step struct {
	Kind     Kind
	ID       string
	Position *Position
	Range    *Range
}

// Language returns the language prefix of an id shaped "language;name", or "".
func (s Step) Language() string {
	lang, _, ok := strings.Cut(s.ID, ";")
	if !ok {
		return ""
	}
	return lang
}

// String returns the step in "<kind>/<parameter>" form.
func (s Step) String() string {
	switch {
	case s.Range != nil:
		b, _ := json.Marshal(s.Range)
		return string(s.Kind) + "/" + string(b)
	case s.Position != nil:
		b, _ := json.Marshal(s.Position)
		return string(s.Kind) + "/" + string(b)
	default:
		return string(s.Kind) + "/" + s.ID
	}
}

// URI returns the step with the sidebar scheme.
func (s Step) URI() string {
	return Scheme + "://" + s.String()
}

// Command returns the in-panel link target that navigates to the step.
func (s Step) Command() string {
	return command(s.String())
}

// CommandFor builds a command link for an id-addressed step.
func CommandFor(kind Kind, id string) string {
	return command(string(kind) + "/" + id)
}

var commandEscaper = strings.NewReplacer("%", "%25", `"`, "%22")

func command(arg string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(arg)
	return CommandPrefix + commandEscaper.Replace(strings.TrimSuffix(buf.String(), "\n"))
}

// Parse decodes a navigation step. It accepts the scheme-qualified form
// ("kite-vscode-sidebar://member/python;os") as well as the bare
// "<kind>/<parameter>" form. Unknown kinds parse with the raw parameter in ID.
// A percent-encoded parameter is decoded once; a '%' that does not start a
// valid escape is kept literally.
func Parse(raw string) (Step, error) {
	return parse(raw, true)
}

func parse(raw string, unescape bool) (Step, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, Scheme+"://")
	s = strings.TrimPrefix(s, Scheme+":")

	kind, param, ok := strings.Cut(s, "/")
	if !ok {
		return Step{}, &StepError{Input: raw, Reason: "missing '/' between kind and parameter"}
	}
	if kind == "" {
		return Step{}, &StepError{Input: raw, Reason: "empty kind"}
	}
	if unescape && strings.Contains(param, "%") {
		if unescaped, err := url.PathUnescape(param); err == nil {
			param = unescaped
		}
	}
	if param == "" {
		return Step{}, &StepError{Input: raw, Reason: "empty parameter"}
	}

	step := Step{Kind: Kind(kind)}
	switch step.Kind {
	case KindValueRange:
		var positions []Position
		if err := json.Unmarshal([]byte(param), &positions); err != nil {
			return Step{}, &StepError{Input: raw, Reason: "range is not a JSON array of positions"}
		}
		if len(positions) != 2 {
			return Step{}, &StepError{Input: raw, Reason: fmt.Sprintf("range needs 2 positions, got %d", len(positions))}
		}
		r := Range{positions[0], positions[1]}
		for _, p := range r {
			if p.Line < 0 || p.Character < 0 {
				return Step{}, &StepError{Input: raw, Reason: "negative position in range"}
			}
		}
		step.Range = &r
	case KindValuePosition:
		var p Position
		if err := json.Unmarshal([]byte(param), &p); err != nil {
			return Step{}, &StepError{Input: raw, Reason: "position is not a JSON object"}
		}
		if p.Line < 0 || p.Character < 0 {
			return Step{}, &StepError{Input: raw, Reason: "negative position"}
		}
		step.Position = &p
	default:
		step.ID = param
	}
	return step, nil
}

// ParseCommand decodes a command link produced by Step.Command back into a step.
// The link is percent-decoded exactly once, so the parameter is taken verbatim.
func ParseCommand(raw string) (Step, error) {
	s, ok := strings.CutPrefix(strings.TrimSpace(raw), CommandPrefix)
	if !ok {
		return Step{}, &StepError{Input: raw, Reason: "not a navigate command"}
	}
	unescaped, err := url.PathUnescape(s)
	if err != nil {
		return Step{}, &StepError{Input: raw, Reason: "invalid escape in command argument"}
	}
	var arg string
	if err := json.Unmarshal([]byte(unescaped), &arg); err != nil {
		return Step{}, &StepError{Input: raw, Reason: "command argument is not a JSON string"}
	}
	return parse(arg, false)
}
