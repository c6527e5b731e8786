package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageMapEqual(t *testing.T) {
	a := MessageMap{RoleSystem: {"s"}, RoleUser: {"u1", "u2"}}
	b := MessageMap{RoleUser: {"u1", "u2"}, RoleSystem: {"s"}}
	assert.True(t, a.Equal(b))

	assert.False(t, a.Equal(MessageMap{RoleSystem: {"s"}, RoleUser: {"u1"}}))
	assert.False(t, a.Equal(MessageMap{RoleSystem: {"s"}, RoleUser: {"u2", "u1"}}))
	assert.False(t, a.Equal(nil))
}

func TestMessageMapEqualEmptyListIsAbsent(t *testing.T) {
	a := MessageMap{RoleSystem: {"s"}, RoleDeveloper: {}}
	b := MessageMap{RoleSystem: {"s"}}
	assert.True(t, a.Equal(b))
	assert.True(t, b.Equal(a))
}

func TestMessageMapCloneIsDeep(t *testing.T) {
	orig := MessageMap{RoleUser: {"one"}}
	cp := orig.Clone()
	cp[RoleUser][0] = "mutated"
	assert.Equal(t, "one", orig[RoleUser][0])
}

func TestTuningParamsCloneIsDeep(t *testing.T) {
	temp := 0.7
	orig := &TuningParams{Temperature: &temp}
	cp := orig.Clone()
	*cp.Temperature = 0.1
	assert.Equal(t, 0.7, *orig.Temperature)

	var nilParams *TuningParams
	assert.Nil(t, nilParams.Clone())
}
