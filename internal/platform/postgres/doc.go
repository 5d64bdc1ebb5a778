// Package postgres implements the store interfaces on PostgreSQL. It
// is the reference backend adapter: the engine itself never touches
// this package, only the orchestrating services do, through the
// interfaces in internal/store.
package postgres
