// Package ports defines the interfaces (ports) that external adapters must
// implement. This enables testability by allowing mock implementations for
// unit testing the services without a database.
package ports
