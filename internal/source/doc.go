// Package source snapshots external systems into finite event producers.
//
// Every adapter reads eagerly, once, and hands back event.From over what it
// read, so the returned producers are finite and replay the same snapshot on
// every subscription.
package source
