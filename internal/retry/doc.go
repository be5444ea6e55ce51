// Package retry runs an operation under a bounded attempt budget.
//
// A Policy pairs the attempt budget with a backoff sequence from
// github.com/sethvargo/go-retry and a predicate deciding which errors are
// worth another attempt. Waiting is delegated to a Sleeper so callers and
// tests control the clock.
package retry
