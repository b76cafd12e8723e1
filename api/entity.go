package api

import "encoding/json"

type Property struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type SystemBase struct {
	Name       string     `json:"name"`
	Properties []Property `json:"properties,omitempty"`
}

type System struct {
	ID string `json:"id"`
	SystemBase
}

// ErrorResponse is the body the backend returns with a non-2xx status. Detail is
// usually a string, but validation failures carry a list of issues.
type ErrorResponse struct {
	Detail json.RawMessage `json:"detail,omitempty"`
}

// ValidationIssue is one element of a validation failure's detail list.
type ValidationIssue struct {
	Type  string        `json:"type"`
	Loc   []interface{} `json:"loc"`
	Msg   string        `json:"msg"`
	Input interface{}   `json:"input,omitempty"`
}
