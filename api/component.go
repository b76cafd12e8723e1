package api

import (
	"fmt"
	"strings"
)

type ComponentType string

const (
	ComponentTypeHardware ComponentType = "hardware"
	ComponentTypeSoftware ComponentType = "software"
	ComponentTypeDatabase ComponentType = "database"
	ComponentTypePeople   ComponentType = "people"
	ComponentTypeProcess  ComponentType = "process"
)

var componentTypes = []ComponentType{
	ComponentTypeHardware,
	ComponentTypeSoftware,
	ComponentTypeDatabase,
	ComponentTypePeople,
	ComponentTypeProcess,
}

// ComponentTypes returns every known component type in declaration order.
func ComponentTypes() []ComponentType {
	out := make([]ComponentType, len(componentTypes))
	copy(out, componentTypes)
	return out
}

func (t ComponentType) Valid() bool {
	for _, known := range componentTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Label is the display form of the type, e.g. "Hardware".
func (t ComponentType) Label() string {
	if t == "" {
		return ""
	}
	return strings.ToUpper(string(t[:1])) + string(t[1:])
}

func ParseComponentType(s string) (ComponentType, error) {
	t := ComponentType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("invalid component type %q: must be one of %s", s, joinComponentTypes(", "))
	}
	return t, nil
}

func joinComponentTypes(sep string) string {
	names := make([]string, 0, len(componentTypes))
	for _, t := range componentTypes {
		names = append(names, string(t))
	}
	return strings.Join(names, sep)
}

type ComponentBase struct {
	Name       string        `json:"name"`
	Type       ComponentType `json:"type"`
	Properties []Property    `json:"properties,omitempty"`
}

type ComponentItem struct {
	ID string `json:"id"`
	ComponentBase
}
