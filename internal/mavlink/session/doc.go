// Package session owns the telemetry session over one duplex byte
// stream: the outgoing sequence counter, frame send/receive, and the
// heartbeat and named-float convenience messages.
//
// Ownership boundary:
// - exclusive single-reader/single-writer stream discipline
// - rejection swallowing on the receive path
// - heartbeat ticker and fixed-field heartbeat payload
package session
