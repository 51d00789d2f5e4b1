// Package server wires the HTTP and WebSocket surface: message submission
// and history over REST, the realtime join/broadcast protocol over /ws, plus
// health and metrics endpoints.
package server
