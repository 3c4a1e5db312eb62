package compiler

import (
	"fmt"
	"strconv"
	"strings"
)

// Constant is the tagged variant stored in a Chunk's constant pool: String,
// Number, ObjectLiteral, ListLiteral, or Chunk (a nested chunk value).
type Constant interface {
	constant()
	// Fingerprint returns a string that is equal for two Constants iff they
	// are structurally equal, used by the pool to dedup scalars, objects,
	// and lists in linear time. Chunk constants are deliberately excluded
	// from dedup (see addConstant in chunk.go); their Fingerprint is not called.
	Fingerprint() string
}

// ConstString is a pooled string constant.
type ConstString string

// ConstNumber is a pooled numeric constant.
type ConstNumber float64

// ConstObject is an insertion-ordered mapping from option-key string to any
// Constant.
type ConstObject struct {
	Keys   []string
	Values []Constant
}

// ConstList is an ordered sequence of Constant.
type ConstList struct {
	Items []Constant
}

// ConstChunk is a nested chunk value, produced by compiling a block.
type ConstChunk struct {
	Chunk *Chunk
}

func (ConstString) constant() {}
func (ConstNumber) constant() {}
func (ConstObject) constant() {}
func (ConstList) constant()   {}
func (ConstChunk) constant()  {}

func (c ConstString) Fingerprint() string {
	return "S:" + strconv.Quote(string(c))
}

func (c ConstNumber) Fingerprint() string {
	return "N:" + strconv.FormatFloat(float64(c), 'g', -1, 64)
}

func (c ConstObject) Fingerprint() string {
	var b strings.Builder
	b.WriteString("O{")
	for i, k := range c.Keys {
		b.WriteString(strconv.Quote(k))
		b.WriteString("=")
		b.WriteString(c.Values[i].Fingerprint())
		b.WriteString(";")
	}
	b.WriteString("}")
	return b.String()
}

func (c ConstList) Fingerprint() string {
	var b strings.Builder
	b.WriteString("L[")
	for _, item := range c.Items {
		b.WriteString(item.Fingerprint())
		b.WriteString(",")
	}
	b.WriteString("]")
	return b.String()
}

// Fingerprint is unique per nested chunk (identity, not structure) since
// chunks are not deduplicated; see the design notes on constant pool
// identity.
func (c ConstChunk) Fingerprint() string {
	return fmt.Sprintf("C:%p", c.Chunk)
}
