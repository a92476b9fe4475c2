// Package bridge wires the telemetry session, the sensor readers and
// the CSV logs into the long-running field service.
//
// Ownership boundary:
// - service configuration and validation
// - the main loop merging heartbeat ticks, inbound frames and sensor rows
// - per-sensor log files and optional rebroadcast
// - the optional health/metrics HTTP endpoint
package bridge
