// Package value holds the structured data type exchanged between the host
// and the embedded UI core, and its canonical text encoding.
package value

import (
	"fmt"
	"math"
	"sort"
)

// Kind identifies the variant of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindSequence
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Value is any syntactically valid generic data document.
// The set of implementations is closed: String, Number, Bool, Null,
// Sequence and Mapping.
type Value interface {
	Kind() Kind
	sealed()
}

type (
	String   string
	Number   float64
	Bool     bool
	Null     struct{}
	Sequence []Value
	Mapping  map[string]Value
)

func (String) Kind() Kind   { return KindString }
func (Number) Kind() Kind   { return KindNumber }
func (Bool) Kind() Kind     { return KindBool }
func (Null) Kind() Kind     { return KindNull }
func (Sequence) Kind() Kind { return KindSequence }
func (Mapping) Kind() Kind  { return KindMapping }

func (String) sealed()   {}
func (Number) sealed()   {}
func (Bool) sealed()     {}
func (Null) sealed()     {}
func (Sequence) sealed() {}
func (Mapping) sealed()  {}

// Keys returns the mapping's keys in sorted order.
func (m Mapping) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Equal reports whether a and b are the same document.
// A nil Value compares equal to Null. Non-finite numbers encode as null,
// so they compare equal to Null as well.
func Equal(a, b Value) bool {
	a, b = normalize(a), normalize(b)
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case Null:
		return true
	case Bool:
		return av == b.(Bool)
	case Number:
		return av == b.(Number)
	case String:
		return av == b.(String)
	case Sequence:
		bv := b.(Sequence)
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case Mapping:
		bv := b.(Mapping)
		if len(av) != len(bv) {
			return false
		}
		for k, x := range av {
			y, ok := bv[k]
			if !ok || !Equal(x, y) {
				return false
			}
		}
		return true
	}
	return false
}

func normalize(v Value) Value {
	if v == nil {
		return Null{}
	}
	if n, ok := v.(Number); ok && !isFinite(float64(n)) {
		return Null{}
	}
	return v
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
