// Package toolpath resolves executable names to invocable paths.
//
// Resolution asks the host environment for the named tool and degrades
// to the literal input when the lookup fails, so callers always get a
// string they can hand to os/exec. Results are cached per name and
// concurrent first lookups are collapsed into a single call.
//
// The package also renders the platform display form of a composed
// command line, quoting the executable path on hosts where embedded
// spaces would otherwise split it.
package toolpath
