// Package records decodes the stored sections of a household book into typed
// Go values and summarizes them.
//
// History records and transactions are sum types discriminated by their
// "type" member. Money is decimal; nothing here does float arithmetic on
// amounts.
package records
