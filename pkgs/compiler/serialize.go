package compiler

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// ChunkDTO is the canonical, CBOR-serializable form of a Chunk: a flat,
// tagged-union-friendly shape, used by `uidsl compile --format cbor` and by
// pkgs/chunkhash to content-address a compiled chunk. A discriminated DTO
// marshaled with cbor.CanonicalEncOptions keeps the bytes deterministic.
type ChunkDTO struct {
	Instructions []InstructionDTO
	Constants    []ConstantDTO
}

// InstructionDTO mirrors Instruction with a string opcode name so the wire
// format survives opcode renumbering.
type InstructionDTO struct {
	Op       string
	Operands []int
}

// ConstantDTO is the tagged union of the five Constant variants.
type ConstantDTO struct {
	Kind string // "string", "number", "object", "list", "chunk"

	Str    string        `cbor:",omitempty"`
	Num    float64       `cbor:",omitempty"`
	Keys   []string      `cbor:",omitempty"`
	Values []ConstantDTO `cbor:",omitempty"`
	Items  []ConstantDTO `cbor:",omitempty"`
	Nested *ChunkDTO     `cbor:",omitempty"`
}

// ToDTO converts a Chunk into its canonical DTO form.
func ToDTO(c *Chunk) ChunkDTO {
	dto := ChunkDTO{
		Instructions: make([]InstructionDTO, len(c.Instructions)),
		Constants:    make([]ConstantDTO, len(c.Constants)),
	}
	for i, instr := range c.Instructions {
		dto.Instructions[i] = InstructionDTO{Op: instr.Op.String(), Operands: instr.Operands}
	}
	for i, v := range c.Constants {
		dto.Constants[i] = constantToDTO(v)
	}
	return dto
}

func constantToDTO(v Constant) ConstantDTO {
	switch c := v.(type) {
	case ConstString:
		return ConstantDTO{Kind: "string", Str: string(c)}
	case ConstNumber:
		return ConstantDTO{Kind: "number", Num: float64(c)}
	case ConstObject:
		values := make([]ConstantDTO, len(c.Values))
		for i, val := range c.Values {
			values[i] = constantToDTO(val)
		}
		return ConstantDTO{Kind: "object", Keys: append([]string{}, c.Keys...), Values: values}
	case ConstList:
		items := make([]ConstantDTO, len(c.Items))
		for i, it := range c.Items {
			items[i] = constantToDTO(it)
		}
		return ConstantDTO{Kind: "list", Items: items}
	case ConstChunk:
		nested := ToDTO(c.Chunk)
		return ConstantDTO{Kind: "chunk", Nested: &nested}
	default:
		return ConstantDTO{Kind: "unknown"}
	}
}

// Marshal produces a deterministic CBOR encoding of a chunk, suitable for
// content hashing (pkgs/chunkhash) and for `uidsl compile --format cbor`.
func Marshal(c *Chunk) ([]byte, error) {
	encMode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("failed to create CBOR encoder: %w", err)
	}
	dto := ToDTO(c)
	data, err := encMode.Marshal(dto)
	if err != nil {
		return nil, fmt.Errorf("CBOR encoding of chunk failed: %w", err)
	}
	return data, nil
}
