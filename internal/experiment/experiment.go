package experiment

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/dtroode/backup-auth-server/internal/model"
)

// Config describes enrollment in one experiment.
type Config struct {
	// EnrollmentPercentage enrolls a stable pseudo-random share of accounts, 0-100.
	EnrollmentPercentage int `yaml:"enrollmentPercentage"`
	// EnrolledAccounts are always enrolled.
	EnrolledAccounts []uuid.UUID `yaml:"enrolledAccounts"`
	// ExcludedAccounts are never enrolled. Exclusion wins over explicit enrollment.
	ExcludedAccounts []uuid.UUID `yaml:"excludedAccounts"`
}

type file struct {
	Experiments map[string]Config `yaml:"experiments"`
}

type experiment struct {
	percentage int
	enrolled   map[uuid.UUID]struct{}
	excluded   map[uuid.UUID]struct{}
}

var _ model.ExperimentEnroller = (*Manager)(nil)

// Manager answers enrollment questions from a static experiment configuration.
type Manager struct {
	experiments map[string]experiment
}

// NewManager creates a Manager from parsed experiment configs.
func NewManager(configs map[string]Config) (*Manager, error) {
	m := &Manager{experiments: make(map[string]experiment, len(configs))}
	for name, cfg := range configs {
		if cfg.EnrollmentPercentage < 0 || cfg.EnrollmentPercentage > 100 {
			return nil, fmt.Errorf("experiment %s: enrollment percentage must be within 0-100, got %d", name, cfg.EnrollmentPercentage)
		}
		e := experiment{
			percentage: cfg.EnrollmentPercentage,
			enrolled:   make(map[uuid.UUID]struct{}, len(cfg.EnrolledAccounts)),
			excluded:   make(map[uuid.UUID]struct{}, len(cfg.ExcludedAccounts)),
		}
		for _, id := range cfg.EnrolledAccounts {
			e.enrolled[id] = struct{}{}
		}
		for _, id := range cfg.ExcludedAccounts {
			e.excluded[id] = struct{}{}
		}
		m.experiments[name] = e
	}
	return m, nil
}

// Parse reads a YAML experiment file.
func Parse(r io.Reader) (*Manager, error) {
	var f file
	if err := yaml.NewDecoder(r).Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to decode experiments: %w", err)
	}
	return NewManager(f.Experiments)
}

// Load reads a YAML experiment file from path. An empty path yields a Manager with no experiments.
func Load(path string) (*Manager, error) {
	if path == "" {
		return NewManager(nil)
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open experiments file: %w", err)
	}
	defer fh.Close()
	return Parse(fh)
}

// IsEnrolled reports whether accountID is enrolled in experimentName. Unknown experiments enroll nobody.
func (m *Manager) IsEnrolled(accountID uuid.UUID, experimentName string) bool {
	e, ok := m.experiments[experimentName]
	if !ok {
		return false
	}
	if _, ok := e.excluded[accountID]; ok {
		return false
	}
	if _, ok := e.enrolled[accountID]; ok {
		return true
	}
	return bucket(accountID, experimentName) < e.percentage
}

// bucket maps an account to a stable value in [0, 100) per experiment.
func bucket(accountID uuid.UUID, experimentName string) int {
	h := sha256.New()
	h.Write([]byte(experimentName))
	h.Write(accountID[:])
	sum := h.Sum(nil)
	return int(binary.BigEndian.Uint64(sum[:8]) % 100)
}
