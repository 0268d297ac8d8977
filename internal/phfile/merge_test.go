package phfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"holiday-yaml-sync/internal/holidays"
)

var sampleRecords = []holidays.Record{
	{Name: "New Year", FixedDate: [2]int{1, 1}},
	{Name: "Local Day", FixedDate: [2]int{3, 15}, OnlyStates: []string{"A", "B"}},
}

func topKeys(t *testing.T, data []byte) []string {
	t.Helper()
	var doc yaml.Node
	require.NoError(t, yaml.Unmarshal(data, &doc))
	require.Len(t, doc.Content, 1)
	root := doc.Content[0]
	require.Equal(t, yaml.MappingNode, root.Kind)
	var keys []string
	for i := 0; i < len(root.Content); i += 2 {
		keys = append(keys, root.Content[i].Value)
	}
	return keys
}

func TestMerge_EmptyListWithMetadata(t *testing.T) {
	in := []byte(`other_key:
  foo: 1
PH:
  - {name: Old, fixed_date: [1, 2]}
_nominatim_url: http://x
`)

	out, err := Merge(in, nil)
	require.NoError(t, err)

	assert.Equal(t, "---\n\n_nominatim_url: http://x\n\nPH: []\nother_key:\n  foo: 1\n", string(out))
}

func TestMerge_EmptyInput(t *testing.T) {
	for _, in := range []string{"", "---\n", "PH: []\n"} {
		out, err := Merge([]byte(in), nil)
		require.NoError(t, err)
		assert.Equal(t, "---\n\nPH: []\n", string(out), "input %q", in)
	}
}

func TestMerge_Records(t *testing.T) {
	out, err := Merge([]byte("PH: []\n"), sampleRecords)
	require.NoError(t, err)

	assert.Contains(t, string(out), "{name: New Year, fixed_date: [1, 1]}")
	assert.Contains(t, string(out), "{name: Local Day, fixed_date: [3, 15], only_states: [A, B]}")

	var parsed struct {
		PH []holidays.Record `yaml:"PH"`
	}
	require.NoError(t, yaml.Unmarshal(out, &parsed))
	assert.Equal(t, sampleRecords, parsed.PH)
}

func TestMerge_PreservesOtherKeys(t *testing.T) {
	in := []byte(`# Germany
zeta: [3, 2, 1]
PH:
  - {name: Old, fixed_date: [1, 2]}
Baden-Württemberg:
  _state_code: bw
  SH:
    - name: Sommerferien
      2024: [7, 25, 9, 7]
alpha: "keep me"
_nominatim_url: https://nominatim.openstreetmap.org/reverse?format=json&lat=49.5&lon=9.8
`)

	out, err := Merge(in, sampleRecords)
	require.NoError(t, err)

	assert.Equal(t, []string{"_nominatim_url", "PH", "zeta", "Baden-Württemberg", "alpha"}, topKeys(t, out))

	var before, after map[string]any
	require.NoError(t, yaml.Unmarshal(in, &before))
	require.NoError(t, yaml.Unmarshal(out, &after))
	for _, k := range []string{"zeta", "Baden-Württemberg", "alpha", "_nominatim_url"} {
		assert.Equal(t, before[k], after[k], k)
	}
	assert.NotEqual(t, before["PH"], after["PH"])
}

func TestMerge_WithoutMetadata(t *testing.T) {
	out, err := Merge([]byte("b: 1\nPH: []\na: 2\n"), sampleRecords[:1])
	require.NoError(t, err)
	assert.Equal(t, []string{"PH", "b", "a"}, topKeys(t, out))
}

func TestMerge_Idempotent(t *testing.T) {
	in := []byte(`_nominatim_url: http://x
PH: []
other_key:
  foo: 1
  list:
    - a
    - b
`)
	first, err := Merge(in, sampleRecords)
	require.NoError(t, err)
	second, err := Merge(first, sampleRecords)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestMerge_AliasIntoOldHolidayList(t *testing.T) {
	in := []byte("PH: &p [1]\nb: *p\nc:\n  nested: &q {x: 1}\n  again: *q\n")

	first, err := Merge(in, nil)
	require.NoError(t, err)
	assert.NotContains(t, string(first), "*p")

	second, err := Merge(first, nil)
	require.NoError(t, err, "output must parse again")
	assert.Equal(t, string(first), string(second))

	var parsed map[string]any
	require.NoError(t, yaml.Unmarshal(second, &parsed))
	assert.Equal(t, []any{1}, parsed["b"])
	assert.Equal(t, map[string]any{"nested": map[string]any{"x": 1}, "again": map[string]any{"x": 1}}, parsed["c"])
}

func TestMerge_Malformed(t *testing.T) {
	_, err := Merge([]byte("- a\n- b\n"), nil)
	assert.ErrorIs(t, err, errNotMapping)

	_, err = Merge([]byte("PH: [\n"), nil)
	assert.Error(t, err)
}
