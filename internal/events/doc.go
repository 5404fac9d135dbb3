// Package events provides types and interfaces for an event-driven architecture.
//
// Services publish events after their transaction commits, without knowing
// which handlers will process them. Handlers are registered on an
// EventEmitter at startup.
//
// The primary components are:
// - Event: a typed envelope with a JSON payload
// - SessionCompletedPayload: published when a ranked session is won or lost
// - EventHandler / EventEmitter: the publish and subscribe sides
package events
