// Package jsondoc implements a JSON document edited by set and delete
// operations addressed by dot paths.
//
// Every operation carries the value found at its path before it ran, so that
// Revert is the exact inverse of Apply. The rebasing rules keep those previous
// values consistent when an earlier operation is undone or redone: an
// operation on the same path inherits the reference's previous value, and an
// operation on an enclosing path has the nested part of its previous value
// rewritten.
//
// Paths use the gjson/sjson syntax restricted to object keys. Array elements
// are rebased as whole values.
package jsondoc
