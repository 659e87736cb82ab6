package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeID(t *testing.T) {
	id := NewID()

	got, ok := NormalizeID(id)
	assert.True(t, ok)
	assert.Equal(t, id, got)

	got, ok = NormalizeID(" 507F1F77BCF86CD799439011 ")
	assert.True(t, ok)
	assert.Equal(t, "507f1f77bcf86cd799439011", got)

	for _, bad := range []string{"", "abc", "507f1f77bcf86cd79943901z", "507f1f77bcf86cd7994390111"} {
		_, ok := NormalizeID(bad)
		assert.False(t, ok, bad)
	}
}
