// Package scheduler arranges for callbacks to be run at a future point in
// emulated time. Time is measured in nanoseconds from the creation of the
// Scheduler.
//
// Timers are created with Start() and can be cancelled with Cancel(). A
// cancelled timer is never run. The emulation is moved forward with RunNext(),
// which advances time to the earliest pending timer and runs its callback, or
// with RunUntil(), which runs every timer due before the specified time.
//
// Callbacks can start new timers, including a timer that repeats the callback
// that is currently running. There is no concurrency in the package and a
// Scheduler instance must only be used by one goroutine.
package scheduler
