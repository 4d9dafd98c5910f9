// Package migration applies ordered, versioned schema migrations to a SQLite
// database. Migrations are registered in code by the storage package; the
// manager records applied versions in a tracking table and applies each
// pending migration inside its own transaction.
package migration
