// Package control
// Author: momentics <momentics@gmail.com>
//
// Runtime metrics and debug introspection layer for hioload-net.
//
// Provides concurrent-safe state handling primitives including:
//   - Monotonic counter telemetry written by the socket and protocol layers
//   - Debug hooks and probe registration for internal inspection
//
// The library never writes log lines; callers that want telemetry read
// the registry and ship it themselves.
package control
