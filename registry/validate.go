package registry

import (
	"fmt"
	"strings"

	"github.com/sammy-project/sammy-client-go/api"
)

func missing(field string) api.ValidationIssue {
	return api.ValidationIssue{
		Type: "missing",
		Loc:  []interface{}{"body", field},
		Msg:  "Field required",
	}
}

func validateSystem(s api.SystemBase) []api.ValidationIssue {
	var issues []api.ValidationIssue
	if s.Name == "" {
		issues = append(issues, missing("name"))
	}
	return issues
}

func validateComponent(c api.ComponentBase) []api.ValidationIssue {
	var issues []api.ValidationIssue
	if c.Name == "" {
		issues = append(issues, missing("name"))
	}
	switch {
	case c.Type == "":
		issues = append(issues, missing("type"))
	case !c.Type.Valid():
		quoted := make([]string, 0)
		for _, t := range api.ComponentTypes() {
			quoted = append(quoted, fmt.Sprintf("'%s'", t))
		}
		issues = append(issues, api.ValidationIssue{
			Type:  "enum",
			Loc:   []interface{}{"body", "type"},
			Msg:   "Input should be " + strings.Join(quoted[:len(quoted)-1], ", ") + " or " + quoted[len(quoted)-1],
			Input: string(c.Type),
		})
	}
	return issues
}
