// Package runtime defines the host facade contract the VM executes against
// (widget registry, keyed reactive state, event binding, procedure table,
// asynchronous fetch) and a concrete in-memory Recorder implementation of
// it. The facade's internals — how a "widget" actually renders — are
// deliberately out of scope; Recorder only records calls and applies the
// conf/pack option semantics, so it is sufficient to drive and test every
// VM opcode without a rendering substrate.
package runtime

import (
	"fmt"

	"github.com/loomscript/loom/pkgs/compiler"
)

// Value is the tagged variant carried on the VM's operand stack and stored
// in runtime state: string, number, boolean, list, object, chunk
// reference, or null.
type Value interface {
	value()
}

// String is a scalar string value.
type String string

// Number is a scalar numeric value.
type Number float64

// Bool is a scalar boolean value.
type Bool bool

// Null is the absence of a value (PUSH_VAR of an unset state entry).
type Null struct{}

// List is an ordered sequence of values.
type List struct {
	Items []Value
}

// Object is an insertion-ordered string-keyed mapping of values.
type Object struct {
	Keys   []string
	Values []Value
}

// ChunkRef is a reference to a compiled chunk, pushed by DEF_BLOCK.
type ChunkRef struct {
	Chunk *compiler.Chunk
}

func (String) value()   {}
func (Number) value()   {}
func (Bool) value()     {}
func (Null) value()     {}
func (List) value()     {}
func (Object) value()   {}
func (ChunkRef) value() {}

// Get returns the value for a key, or Null if absent.
func (o Object) Get(key string) Value {
	for i, k := range o.Keys {
		if k == key {
			return o.Values[i]
		}
	}
	return Null{}
}

// Set inserts or overwrites key in place, preserving first-seen position —
// this is what gives BUILD_OBJ its source-order iteration.
func (o *Object) Set(key string, v Value) {
	for i, k := range o.Keys {
		if k == key {
			o.Values[i] = v
			return
		}
	}
	o.Keys = append(o.Keys, key)
	o.Values = append(o.Values, v)
}

// AsString extracts the string payload of a scalar Value (String, Bool, or
// Number rendered as text), used where the VM expects a name/key/url.
func AsString(v Value) (string, bool) {
	switch t := v.(type) {
	case String:
		return string(t), true
	case Number:
		return fmt.Sprintf("%g", float64(t)), true
	case Bool:
		return fmt.Sprintf("%t", bool(t)), true
	default:
		return "", false
	}
}

// FromConstant lowers a compiled Constant into a runtime Value. Chunks
// become ChunkRef; objects/lists lower recursively, preserving order.
func FromConstant(c compiler.Constant) Value {
	switch v := c.(type) {
	case compiler.ConstString:
		return String(v)
	case compiler.ConstNumber:
		return Number(v)
	case compiler.ConstObject:
		obj := Object{Keys: append([]string{}, v.Keys...), Values: make([]Value, len(v.Values))}
		for i, val := range v.Values {
			obj.Values[i] = FromConstant(val)
		}
		return obj
	case compiler.ConstList:
		list := List{Items: make([]Value, len(v.Items))}
		for i, item := range v.Items {
			list.Items[i] = FromConstant(item)
		}
		return list
	case compiler.ConstChunk:
		return ChunkRef{Chunk: v.Chunk}
	default:
		return Null{}
	}
}
