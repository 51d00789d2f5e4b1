// Package hub implements the connection registry and broadcast coordinator
// using the actor pattern.
//
// A single goroutine owns the registry; register, join, broadcast and
// unregister arrive as commands on a channel, so no mutex guards the client
// map. Per-connection write goroutines with bounded queues isolate slow
// clients: a client whose queue is full is disconnected rather than allowed
// to stall a broadcast.
package hub
