// Package resolver implements the native dependency-resolution engine for a
// Debian-style package manager.
//
// Given a read-only view of package metadata (the Cache contract) and a set
// of user requests (install, remove, upgrade, keep — hard or soft), the
// engine searches the space of (package, version) choices for a consistent
// target set that satisfies every hard constraint while maximizing a
// configurable scoring function. The search is heuristic and backtracking:
// it does not guarantee a globally optimal solution, only a locally
// defensible one delivered quickly enough to be interactive.
//
// The package intentionally knows nothing about how packages are downloaded,
// unpacked, or installed — it produces a suggested-package map and a set of
// human-readable reasons, and leaves the rest to its caller.
package resolver
