// Package wizard implements the bank connection workflow: find the bank,
// enter credentials, pick a TAN method, review and import the discovered
// accounts, then run or skip the initial sync.
//
// [Reduce] is the pure transition function over [State]. [Machine] wraps it
// with the network calls, per-step cancellation and subscriber
// notification. Errors are kept per step so that going back and forth never
// loses a message the user has not acted on yet.
package wizard
