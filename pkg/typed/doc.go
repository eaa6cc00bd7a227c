// Package typed is a statically-typed facade over the dynamic control tree
// in pkg/forms. Each wrapper forwards its operations 1:1 to an underlying
// runtime control while the type parameters pin down the shape of the value
// the node produces: a Leaf[T] yields T, an Array[V] yields []V, a Dict[V]
// yields map[string]V, and a Group[C, V] yields the plain struct V derived
// from its record of child nodes C.
//
// Go's type system cannot compute V from C the way a conditional type
// would, so Group resolves the C/V correspondence by reflection when the
// node is constructed and rejects malformed pairs with an error. Everything
// a well-formed tree does afterwards is statically typed.
package typed
