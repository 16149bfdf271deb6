// Package dictionary provides keyed label/metadata lookups.
//
// A Dictionary maps keys to a label plus free-form metadata. Static
// dictionaries hold their definitions in memory; the pgdict subpackage backs
// a dictionary with rows from PostgreSQL and adds search and pagination.
// A Provider resolves dictionaries by name through registered getters and
// caches the resolved instances.
//
// Lookups never fail on a bad key: a key that cannot be coerced to the
// dictionary's key type is reported as not found. Errors are reserved for
// failures of the underlying data source.
package dictionary
