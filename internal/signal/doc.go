// Package signal delivers host lifecycle signals (buffer entered, text
// changed, cursor moved) to subscribers and runs work deferred to the next
// scheduling tick.
//
// Delivery is synchronous and serialized: Publish runs every matching
// handler in the caller's goroutine, in subscription order, before
// returning. A panicking handler is recovered and reported as an error so a
// faulty subscriber cannot stop delivery to the others.
//
// Topics use dot notation. Subscription patterns may use "*" for exactly one
// segment and "**" for zero or more trailing segments:
//
//	buffer.entered
//	buffer.text.*    matches buffer.text.changed
//	cursor.**        matches cursor.moved
package signal
