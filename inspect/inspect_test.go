package inspect_test

import (
	"bytes"
	"strconv"
	"testing"

	"github.com/delaneyj/reactivity/inspect"
	"github.com/delaneyj/reactivity/observer"
	"github.com/stretchr/testify/assert"
)

type noop struct {
	id uint64
}

func (n *noop) ID() uint64 { return n.id }

func (n *noop) AddDep(dep *observer.Dep) { dep.AddSub(n) }

func (n *noop) Update() {}

func TestTreeUnobserved(t *testing.T) {
	v := observer.NewObject().
		With("name", "ann").
		With("tags", observer.NewArray(1, nil))

	want := `object (unobserved)
  name: "ann"
  tags: array len=2 (unobserved)
    [0]: 1
    [1]: null
`
	assert.Equal(t, want, inspect.Tree(v))

	var buf bytes.Buffer
	inspect.WriteTree(&buf, v)
	assert.Equal(t, want, buf.String())
}

func TestTreeObserved(t *testing.T) {
	sys := observer.NewSystem(observer.Config{})
	list := observer.NewArray("x")
	v := observer.NewObject().With("list", list)
	ob := sys.Observe(v, true)

	want := "object dep=" + strconv.FormatUint(ob.Dep().ID(), 10) + " subs=0 roots=1\n" +
		"  list (reactive): array len=1 dep=" + strconv.FormatUint(list.Observer().Dep().ID(), 10) + " subs=0\n" +
		"    [0]: \"x\"\n"
	assert.Equal(t, want, inspect.Tree(v))
}

func TestTreeDoesNotTrack(t *testing.T) {
	sys := observer.NewSystem(observer.Config{})
	inner := observer.NewObject()
	v := observer.NewObject().With("a", inner)
	sys.Observe(v, false)

	sub := &noop{id: sys.NextID()}
	sys.PushTarget(sub)
	inspect.Tree(v)
	inspect.Fingerprint(v)
	sys.PopTarget()

	assert.Empty(t, inner.Observer().Dep().Subs())
	assert.NotContains(t, inspect.Tree(v), "subs=1")
}

func TestTreeCycle(t *testing.T) {
	a := observer.NewObject()
	a.Put("self", a)
	assert.Equal(t, "object (unobserved)\n  self: object (unobserved) (cycle)\n", inspect.Tree(a))
}

func TestFingerprintIdempotentObserve(t *testing.T) {
	sys := observer.NewSystem(observer.Config{})
	a := observer.NewObject().With("n", 1)
	b := observer.NewObject().With("a", a).With("list", observer.NewArray(a))
	a.Put("b", b)

	before := inspect.Fingerprint(b)
	assert.Equal(t, before, inspect.Fingerprint(b))

	sys.Observe(b, false)
	observed := inspect.Fingerprint(b)
	assert.NotEqual(t, before, observed)

	sys.Observe(b, false)
	sys.Observe(a, false)
	assert.Equal(t, observed, inspect.Fingerprint(b))

	sys.Set(a, "extra", 1)
	assert.NotEqual(t, observed, inspect.Fingerprint(b))
}

func TestFingerprintDistinguishesValues(t *testing.T) {
	assert.NotEqual(t,
		inspect.Fingerprint(observer.NewObject().With("a", 1)),
		inspect.Fingerprint(observer.NewObject().With("a", "1")),
	)
	assert.NotEqual(t,
		inspect.Fingerprint(observer.NewArray(1, 2)),
		inspect.Fingerprint(observer.NewArray(2, 1)),
	)
	assert.Equal(t, inspect.Fingerprint(nil), inspect.Fingerprint((*observer.Object)(nil)))
}
