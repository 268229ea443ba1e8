// Package events provides the typed notification surface connecting the
// theme engine's components: store change notifications, batch pipeline
// lifecycle events, and workflow phase transitions.
//
// Dispatch is synchronous and ordered. A component that emits an event
// observes every subscriber's side effects before its own call returns,
// which keeps the cooperative single-owner mutation model explicit
// instead of hiding re-entrancy behind a framework signal system.
package events
