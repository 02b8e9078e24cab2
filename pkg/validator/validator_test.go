package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/feedlint/pkg/notice"
	"github.com/leapstack-labs/feedlint/pkg/table"
)

func TestWrap(t *testing.T) {
	called := false
	v := Wrap(RuleDef{
		Name:        "test_rule",
		Description: "A test rule",
		Tables:      []string{"stops.txt"},
		Notices:     []*notice.Kind{notice.EmptyRow},
		Check: func(_ *table.Feed, sink notice.Sink) {
			called = true
			sink.Add(notice.UnknownFile.New(notice.F("filename", "x.txt")))
		},
	})

	assert.Equal(t, "test_rule", v.Name())
	assert.Equal(t, "A test rule", v.Description())
	assert.Equal(t, []string{"stops.txt"}, v.Tables())
	assert.Equal(t, []*notice.Kind{notice.EmptyRow}, v.Notices())

	sink := notice.NewContainer()
	v.Validate(nil, sink)
	assert.True(t, called)
	assert.Equal(t, 1, sink.Len())
}

func TestRegistry(t *testing.T) {
	Clear()
	defer Clear()

	noop := func(*table.Feed, notice.Sink) {}
	RegisterDef(RuleDef{Name: "b_rule", Check: noop})
	RegisterDef(RuleDef{Name: "a_rule", Check: noop})

	assert.Equal(t, 2, Count())

	all := All()
	require.Len(t, all, 2)
	assert.Equal(t, "a_rule", all[0].Name())
	assert.Equal(t, "b_rule", all[1].Name())

	v, ok := ByName("b_rule")
	require.True(t, ok)
	assert.Equal(t, "b_rule", v.Name())

	_, ok = ByName("missing")
	assert.False(t, ok)

	Clear()
	assert.Zero(t, Count())
}
