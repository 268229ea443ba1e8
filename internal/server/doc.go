// Package server is the composition root: it builds the event bus,
// store, history recorder, batch queue, workflow controller and the
// persistence and discovery collaborators from configuration, then
// mounts the REST routes, the WebSocket stream and the middleware
// stack on a single gin engine.
//
// Lifecycle:
//  1. Load configuration (file, then environment)
//  2. Initialize logger
//  3. Wire the component graph over one shared event bus
//  4. Start HTTP server
//  5. Graceful shutdown on signal: cancel batch, drain requests
package server
