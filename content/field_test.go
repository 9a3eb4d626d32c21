package content

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type probe struct {
	Name  Field[string]     `json:"name"`
	Flag  Field[Truthy]     `json:"flag"`
	Items Field[StringList] `json:"items"`
}

func TestFieldDistinguishesAbsentNullAndValue(t *testing.T) {
	var p probe
	require.NoError(t, json.Unmarshal([]byte(`{"name": null}`), &p))
	assert.True(t, p.Name.Set)
	assert.True(t, p.Name.Null)
	assert.False(t, p.Name.Present())
	assert.False(t, p.Flag.Set)

	p = probe{}
	require.NoError(t, json.Unmarshal([]byte(`{"name": "x"}`), &p))
	assert.True(t, p.Name.Present())
	assert.Equal(t, "x", p.Name.Value)
}

func TestTruthy(t *testing.T) {
	cases := map[string]bool{
		`true`:    true,
		`false`:   false,
		`1`:       true,
		`0`:       false,
		`""`:      false,
		`"false"`: true,
		`"0"`:     true,
		`null`:    false,
		`[]`:      true,
		`{}`:      true,
	}
	for raw, want := range cases {
		var p probe
		require.NoError(t, json.Unmarshal([]byte(`{"flag": `+raw+`}`), &p), raw)
		assert.Equal(t, want, bool(flag(p.Flag)), raw)
	}
}

func TestStringList(t *testing.T) {
	cases := map[string][]string{
		`["a", "b"]`:          {"a", "b"},
		`"[\"x\",\"y\"]"`:     {"x", "y"},
		`"not json"`:          {},
		`"{\"a\":1}"`:         {},
		`[" spaced ", "", 3]`: {"spaced", "3"},
		`{}`:                  {},
	}
	for raw, want := range cases {
		var p probe
		require.NoError(t, json.Unmarshal([]byte(`{"items": `+raw+`}`), &p), raw)
		assert.Equal(t, want, []string(list(p.Items)), raw)
	}

	var p probe
	require.NoError(t, json.Unmarshal([]byte(`{"items": null}`), &p))
	assert.NotNil(t, list(p.Items))
	assert.Empty(t, list(p.Items))
}

func TestParseStringList(t *testing.T) {
	assert.Equal(t, StringList{"go", "seo"}, ParseStringList(`["go","seo"]`))
	assert.Equal(t, StringList{}, ParseStringList("broken["))
}
