// Package codec reads and writes the compact bit encoding of combinator
// programs.
//
// # Format
//
// A program is a bit string, most significant bit first:
//
//   - the node count, as an Elias-gamma natural number;
//   - every node in post-order: a prefix code for its shape, then one
//     back-reference per child, then its payload;
//   - zero padding up to the next byte boundary.
//
// A back-reference is the distance from the referring node to the child in
// the node sequence, so it is always at least 1. Payloads are a 256-bit hash
// for hidden, assertl and assertr, 512 bits of entropy for fail, a depth d and
// 2^(d-1) bits for a word, and a 1-based index into the jet table for a jet.
// Witness nodes carry no data.
//
// # Usage
//
//	p, err := codec.DecodeBase64(s)
//	data, err := codec.Encode(p)
//
// Decoding interns every node into a fresh [dag.Arena], so repeated
// subexpressions in the input collapse into one shared node.
package codec
