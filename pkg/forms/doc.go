// Package forms implements the dynamically-typed reactive control tree that
// the typed wrappers in pkg/typed build on. Controls hold loosely-typed
// values (any), aggregate validity from their children, and notify
// subscribers synchronously when values or statuses change.
//
// Three concrete kinds exist: Field wraps a single value, Group a string-keyed
// collection of child controls, and List an ordered sequence of children.
// All mutation is synchronous and unguarded; callers that mutate the same
// subtree from multiple goroutines must serialize access themselves. The
// only background work is async validation, whose result is applied when the
// run finishes and discarded if a newer run superseded it.
package forms
