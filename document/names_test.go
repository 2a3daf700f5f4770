package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypedNameListAdd(t *testing.T) {
	var l TypedNameList
	l = l.Add("a", "")
	l = l.Add("b", "t")
	l = l.Add("a", "u")

	assert.Equal(t, TypedNameList{{Name: "a", Type: "u"}, {Name: "b", Type: "t"}}, l)

	typ, ok := l.Lookup("b")
	assert.True(t, ok)
	assert.Equal(t, "t", typ)

	_, ok = l.Lookup("missing")
	assert.False(t, ok)
}

func TestTypedNameListCanonical(t *testing.T) {
	l := TypedNameList{
		{Name: "x"},
		{Name: "car", Type: "vehicle"},
		{Name: "y"},
		{Name: "bike", Type: "vehicle"},
	}

	assert.Equal(t, TypedNameList{
		{Name: "car", Type: "vehicle"},
		{Name: "bike", Type: "vehicle"},
		{Name: "x"},
		{Name: "y"},
	}, l.Canonical())
	assert.Equal(t, []string{"x", "y"}, l.Untyped())
	assert.Equal(t, []string{"x", "car", "y", "bike"}, l.Names())
	assert.Nil(t, TypedNameList(nil).Canonical())
}

func TestContextBind(t *testing.T) {
	var c Context
	c = c.Bind("a", "uri:1")
	c = c.Bind("b", "uri:2")
	c = c.Bind("a", "uri:3")

	assert.Equal(t, []string{"a", "b"}, c.Symbols())
	uri, ok := c.Lookup("a")
	assert.True(t, ok)
	assert.Equal(t, "uri:3", uri)
	assert.Equal(t, map[string]string{"a": "uri:3", "b": "uri:2"}, c.Map())
}
