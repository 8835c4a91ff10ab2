// Package r3y provides a composable retry driver for Go applications.
//
// The central entry points are [Do], [DoNotify], and [DoIf], which re-invoke
// an [Action] on transient failure according to a [Strategy] of delays,
// optionally gated by a [Condition] predicate and observed by a [Notify]
// callback. Errors are classified with [Transient], [TransientAfter], and
// [Permanent] wrappers; unclassified errors are treated as transient.
package r3y
