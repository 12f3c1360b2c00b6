// Package sentinel defines a const-declarable error type.
//
// errors.New produces a pointer stored in a package-level var, which any
// importer could technically reassign. Error is a plain string type instead,
// so sentinels can be declared as untyped constants, stay immutable, and
// still compare correctly through errors.Is across wrapped chains.
package sentinel
