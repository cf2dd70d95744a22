// Package artifact contains core.ArtifactStore implementations: an in-memory
// store for tests and a file store that persists reports (for example the
// motorcycle procurement JSON) atomically to disk.
package artifact
