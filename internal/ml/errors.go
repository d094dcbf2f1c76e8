// Package ml trains, persists, and serves the bid outcome models.
package ml

import "errors"

var (
	// ErrInsufficientData indicates too few decided bids to fit the models
	ErrInsufficientData = errors.New("insufficient training data")

	// ErrArtifactMissing indicates no trained model artifact on disk
	ErrArtifactMissing = errors.New("model artifact missing")

	// ErrArtifactCorrupt indicates a model artifact that cannot be decoded
	ErrArtifactCorrupt = errors.New("model artifact corrupt")

	// ErrSchemaMismatch indicates an artifact built against a different feature schema
	ErrSchemaMismatch = errors.New("feature schema mismatch")

	// ErrPersistence indicates an I/O failure while saving or loading artifacts
	ErrPersistence = errors.New("artifact persistence failed")
)
