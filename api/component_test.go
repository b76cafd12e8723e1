package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponentTypesOrder(t *testing.T) {
	assert.Equal(t, []ComponentType{"hardware", "software", "database", "people", "process"}, ComponentTypes())

	// callers cannot mutate the package list
	types := ComponentTypes()
	types[0] = "bogus"
	assert.Equal(t, ComponentTypeHardware, ComponentTypes()[0])
}

func TestComponentTypeLabel(t *testing.T) {
	assert.Equal(t, "Hardware", ComponentTypeHardware.Label())
	assert.Equal(t, "People", ComponentTypePeople.Label())
	assert.Equal(t, "", ComponentType("").Label())
}

func TestParseComponentType(t *testing.T) {
	ct, err := ParseComponentType(" Database ")
	require.NoError(t, err)
	assert.Equal(t, ComponentTypeDatabase, ct)

	_, err = ParseComponentType("firmware")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hardware, software, database, people, process")
}

func TestComponentItemJSON(t *testing.T) {
	item := ComponentItem{
		ID: "abc",
		ComponentBase: ComponentBase{
			Name: "db01",
			Type: ComponentTypeDatabase,
		},
	}
	data, err := json.Marshal(item)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"abc","name":"db01","type":"database"}`, string(data))

	var decoded ComponentItem
	require.NoError(t, json.Unmarshal([]byte(`{"id":"x","name":"n","type":"people","properties":[{"key":"k","value":"v"}]}`), &decoded))
	assert.Equal(t, []Property{{Key: "k", Value: "v"}}, decoded.Properties)
	assert.Equal(t, ComponentTypePeople, decoded.Type)
}
