package schedule

// Package schedule implements the maintenance scheduling engine. It expands
// shift definitions into crew-day slots, filters feasible candidates per work
// order, builds an assignment model and solves it with a deterministic
// anytime branch-and-bound search bounded by a wall-clock budget. Results are
// assembled into an immutable Schedule with full diagnostics.
