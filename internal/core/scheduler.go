package core

import "time"

// Scheduler marshals work onto the single UI loop.
//
// Every function passed to Post, and every tick delivered by Every, runs on
// the loop and never concurrently with another one.
type Scheduler interface {
	// Post queues fn to run on the loop.
	Post(fn func())

	// Every runs fn on the loop at a fixed interval until stop is called.
	Every(interval time.Duration, fn func(time.Time)) (stop func())
}
