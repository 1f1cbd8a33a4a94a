// Package patch parses, reverses, and applies unified-diff patches.
//
// The engine is strictly offset-driven: hunk coordinates from the `@@`
// headers are trusted as-is and no context matching or fuzzy recovery is
// attempted. Parsing, reversal, and application are pure functions over
// immutable values, which makes the package safe to use from any number of
// goroutines and straightforward to embed in editors and tooling. Helpers
// to apply a patch to the filesystem or to an in-memory document map are
// provided on top of the core operations.
package patch
