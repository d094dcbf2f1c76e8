package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/bidsight/internal/features"
	"github.com/yourusername/bidsight/internal/gbm"
	"github.com/yourusername/bidsight/internal/preprocess"
)

const (
	currentPointer = "CURRENT"
	manifestFile   = "manifest.json"
	winModelFile   = "win_model.json"
	riskModelFile  = "risk_model.json"
	scalerFile     = "scaler.json"
	encodersFile   = "encoders.json"
	importanceFile = "feature_importance.json"
)

// Store persists model artifacts under a root directory. Each training run
// gets its own version directory; a CURRENT pointer file names the active
// version and is swapped with an atomic rename, so readers never see a
// half-written artifact.
type Store struct {
	dir    string
	logger *logrus.Logger
}

// NewStore creates an artifact store rooted at dir.
func NewStore(dir string, logger *logrus.Logger) *Store {
	return &Store{dir: dir, logger: logger}
}

// Dir returns the store's root directory.
func (s *Store) Dir() string {
	return s.dir
}

// VersionDir returns the directory holding one version's files.
func (s *Store) VersionDir(version string) string {
	return filepath.Join(s.dir, version)
}

// Save writes the artifact's files into its version directory, then points
// CURRENT at it. The pointer swap is the commit: a crash before it leaves
// the previous version active.
func (s *Store) Save(artifact *Artifact) error {
	version := artifact.Manifest.Version
	if version == "" {
		return fmt.Errorf("artifact has no version")
	}

	versionDir := filepath.Join(s.dir, version)
	if err := os.MkdirAll(versionDir, 0o755); err != nil {
		return fmt.Errorf("%w: create artifact directory: %v", ErrPersistence, err)
	}

	files := map[string]interface{}{
		manifestFile:   artifact.Manifest,
		winModelFile:   artifact.WinModel,
		riskModelFile:  artifact.RiskModel,
		scalerFile:     artifact.Pipeline.Scaler,
		encodersFile:   artifact.Pipeline.Encoders,
		importanceFile: artifact.Importance,
	}
	for name, v := range files {
		if err := writeJSONFile(filepath.Join(versionDir, name), v); err != nil {
			return err
		}
	}

	if err := s.setCurrent(version); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"version": version,
		"dir":     versionDir,
	}).Info("Model artifacts saved")
	return nil
}

// setCurrent swaps the CURRENT pointer via a temp file and rename.
func (s *Store) setCurrent(version string) error {
	tmp, err := os.CreateTemp(s.dir, "current-*")
	if err != nil {
		return fmt.Errorf("%w: stage current pointer: %v", ErrPersistence, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(version + "\n"); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: write current pointer: %v", ErrPersistence, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: close current pointer: %v", ErrPersistence, err)
	}

	if err := os.Rename(tmpName, filepath.Join(s.dir, currentPointer)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: swap current pointer: %v", ErrPersistence, err)
	}
	return nil
}

// CurrentVersion reads the CURRENT pointer.
func (s *Store) CurrentVersion() (string, error) {
	raw, err := os.ReadFile(filepath.Join(s.dir, currentPointer))
	if os.IsNotExist(err) {
		return "", ErrArtifactMissing
	}
	if err != nil {
		return "", fmt.Errorf("%w: read current pointer: %v", ErrPersistence, err)
	}

	version := strings.TrimSpace(string(raw))
	if version == "" {
		return "", ErrArtifactMissing
	}
	return version, nil
}

// Load reads the active artifact.
func (s *Store) Load() (*Artifact, error) {
	version, err := s.CurrentVersion()
	if err != nil {
		return nil, err
	}
	return s.LoadVersion(version)
}

// LoadVersion reads one artifact version from disk and validates that it
// is complete and compatible with the current feature schema.
func (s *Store) LoadVersion(version string) (*Artifact, error) {
	versionDir := filepath.Join(s.dir, version)

	var manifest Manifest
	if err := readJSONFile(filepath.Join(versionDir, manifestFile), &manifest); err != nil {
		return nil, err
	}
	if manifest.SchemaVersion != features.SchemaVersion {
		return nil, fmt.Errorf("%w: artifact schema %d, runtime schema %d",
			ErrSchemaMismatch, manifest.SchemaVersion, features.SchemaVersion)
	}

	winModel := &gbm.Regressor{}
	if err := readJSONFile(filepath.Join(versionDir, winModelFile), winModel); err != nil {
		return nil, err
	}
	riskModel := &gbm.Regressor{}
	if err := readJSONFile(filepath.Join(versionDir, riskModelFile), riskModel); err != nil {
		return nil, err
	}
	if !winModel.Fitted() || !riskModel.Fitted() {
		return nil, fmt.Errorf("%w: model has no trees", ErrArtifactCorrupt)
	}

	scaler := &preprocess.StandardScaler{}
	if err := readJSONFile(filepath.Join(versionDir, scalerFile), scaler); err != nil {
		return nil, err
	}
	encoders := make(map[string]*preprocess.LabelEncoder)
	if err := readJSONFile(filepath.Join(versionDir, encodersFile), &encoders); err != nil {
		return nil, err
	}

	pipeline := preprocess.Assemble(encoders, scaler)
	if !pipeline.Fitted() {
		return nil, fmt.Errorf("%w: preprocessing pipeline incomplete", ErrArtifactCorrupt)
	}

	// Importance is informational; a missing file does not block loading.
	var importance []FeatureWeight
	if err := readJSONFile(filepath.Join(versionDir, importanceFile), &importance); err != nil {
		s.logger.WithError(err).WithField("version", version).Warn("Feature importance unavailable")
		importance = nil
	}

	return &Artifact{
		Manifest:   manifest,
		WinModel:   winModel,
		RiskModel:  riskModel,
		Pipeline:   pipeline,
		Importance: importance,
	}, nil
}

// LastTrainedAt returns when the active artifact was created.
func (s *Store) LastTrainedAt() (time.Time, error) {
	artifact, err := s.Load()
	if err != nil {
		return time.Time{}, err
	}
	return artifact.Manifest.CreatedAt, nil
}

// Versions lists stored artifact versions, oldest first. Version names are
// timestamps, so lexical order is chronological.
func (s *Store) Versions() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: list artifact directory: %v", ErrPersistence, err)
	}

	var versions []string
	for _, e := range entries {
		if e.IsDir() {
			versions = append(versions, e.Name())
		}
	}
	sort.Strings(versions)
	return versions, nil
}

// Prune removes old artifact versions, keeping the newest keep versions.
// The active version is never removed. Returns how many were deleted.
func (s *Store) Prune(keep int) (int, error) {
	if keep < 1 {
		keep = 1
	}

	versions, err := s.Versions()
	if err != nil {
		return 0, err
	}
	if len(versions) <= keep {
		return 0, nil
	}

	current, err := s.CurrentVersion()
	if err != nil && !errors.Is(err, ErrArtifactMissing) {
		return 0, err
	}

	removed := 0
	for _, v := range versions[:len(versions)-keep] {
		if v == current {
			continue
		}
		if err := os.RemoveAll(filepath.Join(s.dir, v)); err != nil {
			return removed, fmt.Errorf("%w: prune version %s: %v", ErrPersistence, v, err)
		}
		removed++
	}

	if removed > 0 {
		s.logger.WithFields(logrus.Fields{
			"removed": removed,
			"kept":    keep,
		}).Info("Pruned old model artifacts")
	}
	return removed, nil
}

func writeJSONFile(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrPersistence, filepath.Base(path), err)
	}
	return nil
}

func readJSONFile(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrArtifactMissing, filepath.Base(path))
	}
	if err != nil {
		return fmt.Errorf("%w: read %s: %v", ErrPersistence, filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrArtifactCorrupt, filepath.Base(path), err)
	}
	return nil
}
