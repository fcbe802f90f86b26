package observer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAugmentStrategy(t *testing.T) {
	shared := NewSystem(Config{})
	a, b := NewArray(), NewArray()
	shared.Observe(a, false)
	shared.Observe(b, false)
	assert.Same(t, interceptedMethods, a.methods())
	assert.Same(t, a.methods(), b.methods())
	assert.Nil(t, a.own)

	perInstance := NewSystem(Config{NoProtoAugment: true})
	c, d := NewArray(), NewArray()
	perInstance.Observe(c, false)
	perInstance.Observe(d, false)
	assert.NotSame(t, interceptedMethods, c.methods())
	assert.NotSame(t, c.methods(), d.methods())
	assert.Nil(t, c.proto)

	plain := NewArray()
	assert.Same(t, baseMethods, plain.methods())
}

func TestArrayIndex(t *testing.T) {
	for key, want := range map[any]int{0: 0, 3: 3, int64(7): 7, uint8(2): 2, 4.0: 4, "12": 12} {
		got, ok := arrayIndex(key)
		assert.True(t, ok, "%v", key)
		assert.Equal(t, want, got)
	}
	for _, key := range []any{-1, 1.5, "x", "-2", nil, true} {
		_, ok := arrayIndex(key)
		assert.False(t, ok, "%v", key)
	}
}
