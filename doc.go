// Package phuffman implements a parallel static Huffman coder.
//
// It compresses a byte slice into a self-describing binary container and
// decompresses the container back into the original bytes. Compression is
// a two-pass, non-adaptive process: a full frequency pass builds a single
// code table, then independent chunks of the input are encoded against
// that table and their bit-streams are spliced back together without
// byte-alignment artifacts. See the backend subpackages for the three
// supported ways of running the per-chunk encoders in parallel.
package phuffman
