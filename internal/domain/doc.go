// Package domain defines the core entities of the review engine: the
// per-(user, word) scheduling state, review events, ratings, and the
// coarse learning status derived from scheduler state. Entities here
// carry no persistence or transport concerns; they are plain values
// validated at construction.
package domain
