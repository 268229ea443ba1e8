// Package ws streams theme change notifications to the UI over
// WebSocket.
//
// Every bus event is forwarded as a JSON message {type, payload,
// timestamp}, using the event names of the notification surface
// (palette-changed, item-started, phase-changed, ...). The stream is
// one-directional: the only client frames understood are pings.
//
// Dispatch from the bus must never block, so each connection carries a
// bounded buffer; a client that falls behind is disconnected.
package ws
