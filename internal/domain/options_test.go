package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleList() OptionList {
	return OptionList{
		NewGroup("Fruits", Option{Value: "a", Label: "Apple"}, Option{Value: "b", Label: "Banana"}),
		NewOption("c", "Carrot"),
		NewGroup("Nuts", Option{Value: "p", Label: "Peanut"}),
	}
}

func TestFlattenPutsUngroupedFirst(t *testing.T) {
	var values []string
	for _, o := range sampleList().Flatten() {
		values = append(values, o.Value)
	}
	assert.Equal(t, []string{"c", "a", "b", "p"}, values)
	assert.Equal(t, 4, sampleList().Count())
}

func TestFindDescendsIntoGroups(t *testing.T) {
	o, ok := sampleList().Find("b")
	require.True(t, ok)
	assert.Equal(t, "Banana", o.Label)

	_, ok = sampleList().Find("Fruits")
	assert.False(t, ok, "group labels are never values")
}

func TestFilterKeepsOnlyMatchingChildren(t *testing.T) {
	got := sampleList().Filter("an", nil)

	require.Len(t, got, 1)
	require.True(t, got[0].IsGroup())
	assert.Equal(t, "Fruits", got[0].Group.Label)
	assert.Equal(t, []Option{{Value: "b", Label: "Banana"}}, got[0].Group.Options)
}

func TestFilterIsCaseInsensitiveAndFieldAware(t *testing.T) {
	list := OptionList{NewOption("usr-42", "Alice"), NewOption("usr-7", "Bob")}

	assert.Len(t, list.Filter("ALI", []string{FieldLabel}), 1)
	assert.Empty(t, list.Filter("usr", []string{FieldLabel}))
	assert.Len(t, list.Filter("USR", []string{FieldValue}), 2)
	assert.Len(t, list.Filter("42", []string{FieldLabel, FieldValue}), 1)
}

func TestFilterEmptyQueryCopies(t *testing.T) {
	orig := sampleList()
	got := orig.Filter("", nil)
	got[0].Group.Options[0].Label = "changed"

	assert.Equal(t, "Apple", orig[0].Group.Options[0].Label)
}

func TestWithLabelPatchesGroupsAndRoot(t *testing.T) {
	orig := sampleList()
	got := orig.WithLabel("b", "Blueberry").WithLabel("c", "Celery")

	o, _ := got.Find("b")
	assert.Equal(t, "Blueberry", o.Label)
	o, _ = got.Find("c")
	assert.Equal(t, "Celery", o.Label)
	o, _ = orig.Find("b")
	assert.Equal(t, "Banana", o.Label)
}

func TestEntryJSONShape(t *testing.T) {
	data, err := json.Marshal(OptionList{
		NewOption("1", "One"),
		NewDisabledOption("2", "Two"),
		NewGroup("G", Option{Value: "3", Label: "Three"}),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"value":"1","label":"One"},
		{"value":"2","label":"Two","isDisabled":true},
		{"label":"G","options":[{"value":"3","label":"Three"}]}
	]`, string(data))
}

func TestEntryDecodesNumericValuesAndGroups(t *testing.T) {
	var list OptionList
	require.NoError(t, json.Unmarshal([]byte(`[
		{"value":12,"label":"Twelve"},
		{"value":1.5,"label":"One and a half","isDisabled":true},
		{"label":"Empty","options":[]}
	]`), &list))

	require.Len(t, list, 3)
	assert.Equal(t, Option{Value: "12", Label: "Twelve"}, list[0].Option)
	assert.Equal(t, Option{Value: "1.5", Label: "One and a half", Disabled: true}, list[1].Option)
	assert.True(t, list[2].IsGroup())
	assert.Empty(t, list[2].Group.Options)
}

func TestEntryRejectsNonScalarValue(t *testing.T) {
	var e Entry
	assert.Error(t, json.Unmarshal([]byte(`{"value":{"x":1},"label":"bad"}`), &e))
}

func TestSelectionContains(t *testing.T) {
	assert.True(t, Selection{}.IsEmpty())
	assert.False(t, Selection{}.Contains(""))
	assert.True(t, Selection{Value: "x"}.Contains("x"))

	multi := Selection{Multiple: true, Values: []string{"a", "b"}}
	assert.True(t, multi.Contains("b"))
	assert.False(t, multi.Contains("c"))
	assert.False(t, multi.IsEmpty())
}
