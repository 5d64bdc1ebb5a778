// Package store defines the persistence interfaces the engine's
// callers depend on, most importantly SchedulingStore, the single
// capability abstraction over the per-(user, word) card state that
// every backend adapter satisfies. The pure engine never imports this
// package; only the orchestrating services do.
package store
