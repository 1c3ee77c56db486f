package report

import (
	"bytes"
	"encoding/json"
)

// Kind discriminates what a symbol's value is.
type Kind string

const (
	KindModule   Kind = "module"
	KindType     Kind = "type"
	KindFunction Kind = "function"
	KindInstance Kind = "instance"
	KindUnknown  Kind = "unknown"
)

// ID is an identifier the daemon sends either as a string or as a number.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(id))
}

// Report is a full symbol report.
type Report struct {
	Language string  `json:"language"`
	Symbol   *Symbol `json:"symbol"`
	Report   Docs    `json:"report"`
}

// Value returns the first value of the symbol, which drives rendering.
func (r *Report) Value() (*Value, bool) {
	if r == nil || r.Symbol == nil || len(r.Symbol.Value) == 0 {
		return nil, false
	}
	return &r.Symbol.Value[0], true
}

// Symbol is a named binding and the values it may hold.
type Symbol struct {
	ID       ID      `json:"id"`
	Name     string  `json:"name"`
	Synopsis string  `json:"synopsis,omitempty"`
	Value    []Value `json:"value"`
}

// Value is one possible runtime value of a symbol.
type Value struct {
	ID       ID      `json:"id"`
	Kind     Kind    `json:"kind"`
	Repr     string  `json:"repr"`
	Type     string  `json:"type,omitempty"`
	TypeID   ID      `json:"type_id,omitempty"`
	Synopsis string  `json:"synopsis,omitempty"`
	Details  Details `json:"details"`
}

// Details holds the kind-specific part of a value; at most one field is set.
type Details struct {
	Function *FunctionDetails `json:"function,omitempty"`
	Type     *TypeDetails     `json:"type,omitempty"`
	Module   *ModuleDetails   `json:"module,omitempty"`
	Instance *InstanceDetails `json:"instance,omitempty"`
}

type FunctionDetails struct {
	Parameters      []Parameter             `json:"parameters"`
	ReturnValue     []TypeRef               `json:"return_value,omitempty"`
	LanguageDetails FunctionLanguageDetails `json:"language_details"`
}

type FunctionLanguageDetails struct {
	Python *PythonFunctionDetails `json:"python,omitempty"`
}

type PythonFunctionDetails struct {
	Receiver        *Parameter  `json:"receiver,omitempty"`
	Vararg          *Parameter  `json:"vararg,omitempty"`
	Kwarg           *Parameter  `json:"kwarg,omitempty"`
	KwargParameters []Parameter `json:"kwarg_parameters,omitempty"`
}

type Parameter struct {
	Name          string    `json:"name"`
	InferredValue []TypeRef `json:"inferred_value,omitempty"`
	DefaultValue  []TypeRef `json:"default_value,omitempty"`
	Synopsis      string    `json:"synopsis,omitempty"`
	KeywordOnly   bool      `json:"keyword_only,omitempty"`
}

// TypeRef is a short reference to a value or type, e.g. a default value.
type TypeRef struct {
	ID     ID     `json:"id,omitempty"`
	Repr   string `json:"repr"`
	Type   string `json:"type,omitempty"`
	TypeID ID     `json:"type_id,omitempty"`
}

type TypeDetails struct {
	Members         []Member            `json:"members"`
	TotalMembers    int                 `json:"total_members"`
	LanguageDetails TypeLanguageDetails `json:"language_details"`
}

type TypeLanguageDetails struct {
	Python *PythonTypeDetails `json:"python,omitempty"`
}

type PythonTypeDetails struct {
	Constructor *FunctionDetails `json:"constructor,omitempty"`
	Bases       []TypeRef        `json:"bases,omitempty"`
}

type ModuleDetails struct {
	Members      []Member `json:"members"`
	TotalMembers int      `json:"total_members"`
}

type InstanceDetails struct {
	Type []TypeRef `json:"type,omitempty"`
}

// Member is an attribute of a module or type.
type Member struct {
	ID    ID      `json:"id"`
	Name  string  `json:"name"`
	Value []Value `json:"value"`
}

// Kind returns the kind of the member's first value, or "".
func (m Member) Kind() Kind {
	if len(m.Value) == 0 {
		return ""
	}
	return m.Value[0].Kind
}

// Synopsis returns the synopsis of the member's first value, or "".
func (m Member) Synopsis() string {
	if len(m.Value) == 0 {
		return ""
	}
	return m.Value[0].Synopsis
}

// Docs is the documentation half of a report.
type Docs struct {
	DescriptionHTML string      `json:"description_html"`
	DescriptionText string      `json:"description_text"`
	Examples        []Example   `json:"examples"`
	Usages          []Usage     `json:"usages"`
	Links           []Link      `json:"links"`
	Definition      *Definition `json:"definition,omitempty"`
	TotalExamples   int         `json:"total_examples"`
	TotalUsages     int         `json:"total_usages"`
	TotalLinks      int         `json:"total_links"`
}

type Example struct {
	ID    ID     `json:"id"`
	Title string `json:"title"`
}

type Usage struct {
	Code     string `json:"code"`
	Filename string `json:"filename"`
	Line     int    `json:"line"`
}

type Link struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Snippet string `json:"snippet,omitempty"`
	Domain  string `json:"domain,omitempty"`
}

type Definition struct {
	Filename string `json:"filename"`
	Line     int    `json:"line"`
}

// ValueReport is the response of the value endpoint used by the list routes.
type ValueReport struct {
	Language string `json:"language"`
	Value    *Value `json:"value"`
	Report   Docs   `json:"report"`
}

// MembersReport is one page of a value's members.
type MembersReport struct {
	Language string   `json:"language"`
	Total    int      `json:"total"`
	Start    int      `json:"start"`
	End      int      `json:"end"`
	Members  []Member `json:"members"`
}
