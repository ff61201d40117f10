// Package api defines the shared contracts of hioload-net: the
// transport status vocabulary returned by every socket operation, the
// Pollable abstraction consumed by the readiness selector, the packet
// Transform hook points, and structured library errors.
//
// Author: momentics <momentics@gmail.com>
package api
