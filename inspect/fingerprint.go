package inspect

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/delaneyj/reactivity/observer"
)

const (
	tagNull byte = iota
	tagObject
	tagArray
	tagObserved
	tagReactive
	tagCycle
	tagScalar
)

// Fingerprint digests the shape of value: keys, which of them are reactive
// accessors and the structural dep ids of observed containers. Observing a
// value twice or reading it leaves the fingerprint unchanged; adding keys
// or observing new containers changes it.
func Fingerprint(value any) uint64 {
	d := xxhash.New()
	f := fingerprinter{d: d, seen: map[any]int{}}
	f.value(value)
	return d.Sum64()
}

type fingerprinter struct {
	d    *xxhash.Digest
	seen map[any]int
	buf  [8]byte
}

func (f *fingerprinter) tag(t byte) {
	f.d.Write([]byte{t})
}

func (f *fingerprinter) uint(n uint64) {
	binary.LittleEndian.PutUint64(f.buf[:], n)
	f.d.Write(f.buf[:])
}

func (f *fingerprinter) str(s string) {
	f.uint(uint64(len(s)))
	f.d.WriteString(s)
}

// visit reports whether container was already hashed, writing a back
// reference to its first visit instead.
func (f *fingerprinter) visit(container any) bool {
	if idx, ok := f.seen[container]; ok {
		f.tag(tagCycle)
		f.uint(uint64(idx))
		return true
	}
	f.seen[container] = len(f.seen)
	return false
}

func (f *fingerprinter) observer(ob *observer.Observer) {
	if ob == nil {
		return
	}
	f.tag(tagObserved)
	f.uint(ob.Dep().ID())
}

func (f *fingerprinter) value(value any) {
	switch v := value.(type) {
	case *observer.Object:
		if v == nil {
			f.tag(tagNull)
			return
		}
		if f.visit(v) {
			return
		}
		f.tag(tagObject)
		f.observer(v.Observer())
		keys := v.Keys()
		f.uint(uint64(len(keys)))
		for _, key := range keys {
			f.str(key)
			if d, _ := v.OwnPropertyDescriptor(key); d.IsAccessor() {
				f.tag(tagReactive)
			}
			f.value(read(v, key))
		}
	case *observer.Array:
		if v == nil {
			f.tag(tagNull)
			return
		}
		if f.visit(v) {
			return
		}
		f.tag(tagArray)
		f.observer(v.Observer())
		items := v.Values()
		f.uint(uint64(len(items)))
		for _, item := range items {
			f.value(item)
		}
	case nil:
		f.tag(tagNull)
	default:
		f.tag(tagScalar)
		f.str(fmt.Sprintf("%T:%v", v, v))
	}
}
