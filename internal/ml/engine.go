package ml

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Engine owns the trained models. It fits them from decided bids, persists
// them through a Store, and scores feature vectors. Training is serialized
// by trainMu; the active artifact is swapped atomically under mu, so
// predictions during a retrain keep using the previous models.
type Engine struct {
	store  *Store
	logger *logrus.Logger

	trainMu sync.Mutex
	mu      sync.RWMutex
	current *Artifact
}

// NewEngine creates an engine backed by the given artifact store.
func NewEngine(store *Store, logger *logrus.Logger) *Engine {
	return &Engine{
		store:  store,
		logger: logger,
	}
}

// Current returns the active artifact, loading it from the store on first
// use. Returns ErrArtifactMissing when nothing has been trained yet.
func (e *Engine) Current() (*Artifact, error) {
	e.mu.RLock()
	current := e.current
	e.mu.RUnlock()
	if current != nil {
		return current, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current != nil {
		return e.current, nil
	}

	artifact, err := e.store.Load()
	if err != nil {
		return nil, err
	}

	e.logger.WithField("version", artifact.Manifest.Version).Info("Model artifacts loaded")
	e.current = artifact
	return artifact, nil
}

// Version returns the active artifact version, or "" when untrained.
func (e *Engine) Version() string {
	artifact, err := e.Current()
	if err != nil {
		return ""
	}
	return artifact.Manifest.Version
}

// Reload drops the in-memory artifact so the next use reads from disk.
func (e *Engine) Reload() {
	e.mu.Lock()
	e.current = nil
	e.mu.Unlock()
}

func (e *Engine) swap(artifact *Artifact) {
	e.mu.Lock()
	e.current = artifact
	e.mu.Unlock()
}
