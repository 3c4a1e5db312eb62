// Package chunkhash computes a content-addressed digest of a compiled
// chunk, written as the header line of `uidsl compile --format text` output
// and printed by `uidsl watch` for each recompile. The constant pool does
// not use it: nested chunks are never deduplicated.
package chunkhash

import (
	"encoding/hex"
	"fmt"

	"github.com/loomscript/loom/pkgs/compiler"
	"golang.org/x/crypto/blake2b"
)

// Hash returns the hex-encoded BLAKE2b-256 digest of a chunk's canonical
// CBOR encoding.
func Hash(c *compiler.Chunk) (string, error) {
	data, err := compiler.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("chunkhash: %w", err)
	}
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
