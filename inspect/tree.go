package inspect

import (
	"io"

	"github.com/delaneyj/reactivity/observer"
	qt "github.com/valyala/quicktemplate"
)

const indent = "  "

// Tree renders value as an indented outline listing every key and, for
// observed containers, the structural dep id and its subscriber count.
// Rendering never records dependencies.
func Tree(value any) string {
	bb := qt.AcquireByteBuffer()
	defer qt.ReleaseByteBuffer(bb)
	WriteTree(bb, value)
	return string(bb.B)
}

func WriteTree(w io.Writer, value any) {
	qw := qt.AcquireWriter(w)
	defer qt.ReleaseWriter(qw)
	StreamTree(qw, value)
}

func StreamTree(qw *qt.Writer, value any) {
	streamValue(qw, value, 0, map[any]struct{}{})
	qw.N().S("\n")
}

func streamValue(qw *qt.Writer, value any, depth int, seen map[any]struct{}) {
	switch v := value.(type) {
	case *observer.Object:
		if v == nil {
			qw.N().S("null")
			return
		}
		qw.N().S("object")
		streamObserver(qw, v.Observer())
		if v.IsRootEntity() {
			qw.N().S(" root")
		}
		if _, ok := seen[v]; ok {
			qw.N().S(" (cycle)")
			return
		}
		seen[v] = struct{}{}
		defer delete(seen, v)

		for _, key := range v.Keys() {
			newline(qw, depth+1)
			qw.N().S(key)
			if d, _ := v.OwnPropertyDescriptor(key); d.IsAccessor() {
				qw.N().S(" (reactive)")
			}
			qw.N().S(": ")
			streamValue(qw, read(v, key), depth+1, seen)
		}
	case *observer.Array:
		if v == nil {
			qw.N().S("null")
			return
		}
		qw.N().S("array len=")
		qw.N().D(v.Len())
		streamObserver(qw, v.Observer())
		if _, ok := seen[v]; ok {
			qw.N().S(" (cycle)")
			return
		}
		seen[v] = struct{}{}
		defer delete(seen, v)

		for i, item := range v.Values() {
			newline(qw, depth+1)
			qw.N().S("[")
			qw.N().D(i)
			qw.N().S("]: ")
			streamValue(qw, item, depth+1, seen)
		}
	case nil:
		qw.N().S("null")
	case string:
		qw.N().Q(v)
	default:
		qw.N().V(v)
	}
}

func streamObserver(qw *qt.Writer, ob *observer.Observer) {
	if ob == nil {
		qw.N().S(" (unobserved)")
		return
	}
	dep := ob.Dep()
	qw.N().S(" dep=")
	qw.N().DUL(dep.ID())
	qw.N().S(" subs=")
	qw.N().D(len(dep.Subs()))
	if n := ob.RootCount(); n > 0 {
		qw.N().S(" roots=")
		qw.N().D(n)
	}
}

func newline(qw *qt.Writer, depth int) {
	qw.N().S("\n")
	for range depth {
		qw.N().S(indent)
	}
}

// read fetches key without recording the active subscriber.
func read(o *observer.Object, key string) (v any) {
	ob := o.Observer()
	if ob == nil {
		return o.Get(key)
	}
	ob.System().Untracked(func() {
		v = o.Get(key)
	})
	return v
}
