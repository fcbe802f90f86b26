package observer

import (
	"cmp"
	"fmt"
	"slices"
)

// arrayMethods is the table the seven mutating operations dispatch through.
// Plain arrays use baseMethods; observed arrays get interceptedMethods either
// as their shared table or as a per-instance copy.
type arrayMethods struct {
	push    func(a *Array, items ...any) int
	pop     func(a *Array) any
	shift   func(a *Array) any
	unshift func(a *Array, items ...any) int
	splice  func(a *Array, start, deleteCount int, items ...any) []any
	sort    func(a *Array, compare func(x, y any) int)
	reverse func(a *Array)
}

var baseMethods = &arrayMethods{
	push: func(a *Array, items ...any) int {
		a.items = append(a.items, items...)
		return len(a.items)
	},
	pop: func(a *Array) any {
		if len(a.items) == 0 {
			return nil
		}
		lastIdx := len(a.items) - 1
		v := a.items[lastIdx]
		a.items[lastIdx] = nil
		a.items = a.items[:lastIdx]
		return v
	},
	shift: func(a *Array) any {
		if len(a.items) == 0 {
			return nil
		}
		v := a.items[0]
		a.items = slices.Delete(a.items, 0, 1)
		return v
	},
	unshift: func(a *Array, items ...any) int {
		a.items = slices.Insert(a.items, 0, items...)
		return len(a.items)
	},
	splice: func(a *Array, start, deleteCount int, items ...any) []any {
		n := len(a.items)
		if start < 0 {
			start = max(n+start, 0)
		}
		start = min(start, n)
		deleteCount = min(max(deleteCount, 0), n-start)

		removed := make([]any, deleteCount)
		copy(removed, a.items[start:start+deleteCount])
		a.items = slices.Replace(a.items, start, start+deleteCount, items...)
		return removed
	},
	sort: func(a *Array, compare func(x, y any) int) {
		if compare == nil {
			compare = compareAsStrings
		}
		slices.SortStableFunc(a.items, compare)
	},
	reverse: func(a *Array) {
		slices.Reverse(a.items)
	},
}

func compareAsStrings(x, y any) int {
	return cmp.Compare(fmt.Sprint(x), fmt.Sprint(y))
}

var interceptedMethods = &arrayMethods{}

// The intercepted table reaches Observe, which reaches augment, so it is
// filled in at init.
func init() {
	*interceptedMethods = arrayMethods{
		push: func(a *Array, items ...any) int {
			n := baseMethods.push(a, items...)
			a.ob.ObserveArray(items)
			a.ob.dep.Notify()
			return n
		},
		pop: func(a *Array) any {
			v := baseMethods.pop(a)
			a.ob.dep.Notify()
			return v
		},
		shift: func(a *Array) any {
			v := baseMethods.shift(a)
			a.ob.dep.Notify()
			return v
		},
		unshift: func(a *Array, items ...any) int {
			n := baseMethods.unshift(a, items...)
			a.ob.ObserveArray(items)
			a.ob.dep.Notify()
			return n
		},
		splice: func(a *Array, start, deleteCount int, items ...any) []any {
			removed := baseMethods.splice(a, start, deleteCount, items...)
			a.ob.ObserveArray(items)
			a.ob.dep.Notify()
			return removed
		},
		sort: func(a *Array, compare func(x, y any) int) {
			baseMethods.sort(a, compare)
			a.ob.dep.Notify()
		},
		reverse: func(a *Array) {
			baseMethods.reverse(a)
			a.ob.dep.Notify()
		},
	}
}

// Array is an ordered sequence. Index reads are never intercepted; only the
// mutating operations are, once the array is observed.
type Array struct {
	items []any

	proto *arrayMethods
	own   *arrayMethods

	nonExtensible bool
	ob            *Observer
}

func NewArray(items ...any) *Array {
	return &Array{items: items}
}

func (a *Array) methods() *arrayMethods {
	switch {
	case a.own != nil:
		return a.own
	case a.proto != nil:
		return a.proto
	default:
		return baseMethods
	}
}

func (a *Array) Observer() *Observer {
	return a.ob
}

func (a *Array) PreventExtensions() {
	a.nonExtensible = true
}

func (a *Array) IsExtensible() bool {
	return !a.nonExtensible
}

func (a *Array) Len() int {
	return len(a.items)
}

// At returns the element at i, or nil when i is out of range.
func (a *Array) At(i int) any {
	if i < 0 || i >= len(a.items) {
		return nil
	}
	return a.items[i]
}

// Values returns a copy of the elements.
func (a *Array) Values() []any {
	return slices.Clone(a.items)
}

// MaxIndexGap is how far past the end an index write may reach. Writes
// further out are dropped rather than padding the array with nils.
const MaxIndexGap = 1 << 16

// Store writes index i directly, growing the array with nils when needed.
// It bypasses interception, so no subscriber hears about it.
func (a *Array) Store(i int, value any) {
	if i < 0 || i-len(a.items) > MaxIndexGap {
		return
	}
	a.grow(i + 1)
	a.items[i] = value
}

func (a *Array) grow(n int) {
	if n > len(a.items) {
		a.items = append(a.items, make([]any, n-len(a.items))...)
	}
}

func (a *Array) Push(items ...any) int {
	return a.methods().push(a, items...)
}

func (a *Array) Pop() any {
	return a.methods().pop(a)
}

func (a *Array) Shift() any {
	return a.methods().shift(a)
}

func (a *Array) Unshift(items ...any) int {
	return a.methods().unshift(a, items...)
}

// Splice removes deleteCount elements at start, inserts items there and
// returns the removed elements. A negative start counts from the end.
func (a *Array) Splice(start, deleteCount int, items ...any) []any {
	return a.methods().splice(a, start, deleteCount, items...)
}

// Sort orders the elements stably; a nil compare orders by string form.
func (a *Array) Sort(compare func(x, y any) int) {
	a.methods().sort(a, compare)
}

func (a *Array) Reverse() {
	a.methods().reverse(a)
}

func (a *Array) MarshalJSON() ([]byte, error) {
	return marshalValue(a)
}
