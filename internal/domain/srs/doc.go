// Package srs implements the scheduling engine driving word review:
// the FSRS scheduler, the latency-based rating classifier, and the
// learning status projector.
//
// Everything in this package is a pure function of its inputs: no
// persistence, no wall-clock reads beyond the caller-supplied "now",
// and no hidden randomness. The caller owns loading and storing the
// card state around each call.
package srs
