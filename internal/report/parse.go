package report

import (
	"encoding/json"
	"fmt"
)

// ParseError means the daemon answered with something that is not the expected JSON.
type ParseError struct {
	What string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return "parse " + e.What
	}
	return fmt.Sprintf("parse %s: %v", e.What, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseSymbolReport decodes a full symbol report. The daemon omits the id on
// some symbol lookups, so an empty symbol id is filled from requestedID.
func ParseSymbolReport(data []byte, requestedID string) (*Report, error) {
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, &ParseError{What: "symbol report", Err: err}
	}
	if r.Symbol != nil && r.Symbol.ID == "" {
		r.Symbol.ID = ID(requestedID)
	}
	return &r, nil
}

type hoverReport struct {
	Language string   `json:"language"`
	Symbol   []Symbol `json:"symbol"`
	Report   Docs     `json:"report"`
}

// ParseHoverReport decodes a hover response, whose symbol field is a list,
// into a Report holding the first symbol.
func ParseHoverReport(data []byte) (*Report, error) {
	var h hoverReport
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, &ParseError{What: "hover report", Err: err}
	}
	if len(h.Symbol) == 0 {
		return nil, &ParseError{What: "hover report: no symbol under cursor"}
	}
	return &Report{
		Language: h.Language,
		Symbol:   &h.Symbol[0],
		Report:   h.Report,
	}, nil
}

// ParseValueReport decodes a value report. An empty value id is filled from requestedID.
func ParseValueReport(data []byte, requestedID string) (*ValueReport, error) {
	var r ValueReport
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, &ParseError{What: "value report", Err: err}
	}
	if r.Value != nil && r.Value.ID == "" {
		r.Value.ID = ID(requestedID)
	}
	return &r, nil
}

// ParseMembersReport decodes a page of members.
func ParseMembersReport(data []byte) (*MembersReport, error) {
	var r MembersReport
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, &ParseError{What: "members report", Err: err}
	}
	if r.Total < len(r.Members) {
		r.Total = len(r.Members)
	}
	return &r, nil
}
