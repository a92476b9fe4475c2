// Package mavlink owns the MAVLink v2 wire contract and parsing primitives.
//
// Ownership boundary:
// - frame/header primitives and the v2 checksum
// - incremental stream decoding with resynchronization
// - the Dialect capability boundary for message bodies
//
// Message layouts themselves live behind the Dialect interface; this
// package carries only opaque message-id + payload bytes.
package mavlink
