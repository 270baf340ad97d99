package experiment

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	enrolled := uuid.New()
	excluded := uuid.New()

	doc := `
experiments:
  backupMedia:
    enrollmentPercentage: 0
    enrolledAccounts:
      - ` + enrolled.String() + `
      - ` + excluded.String() + `
    excludedAccounts:
      - ` + excluded.String() + `
  everyone:
    enrollmentPercentage: 100
`
	m, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)

	assert.True(t, m.IsEnrolled(enrolled, "backupMedia"))
	assert.False(t, m.IsEnrolled(excluded, "backupMedia"))
	assert.False(t, m.IsEnrolled(uuid.New(), "backupMedia"))
	assert.True(t, m.IsEnrolled(uuid.New(), "everyone"))
	assert.False(t, m.IsEnrolled(enrolled, "unknown"))
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse(strings.NewReader("experiments: ["))
	assert.Error(t, err)

	_, err = Parse(strings.NewReader("experiments:\n  x:\n    enrollmentPercentage: 101\n"))
	assert.Error(t, err)

	m, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.False(t, m.IsEnrolled(uuid.New(), "x"))
}

func TestIsEnrolled_PercentageIsStable(t *testing.T) {
	m, err := NewManager(map[string]Config{"half": {EnrollmentPercentage: 50}})
	require.NoError(t, err)

	enrolled := 0
	for i := 0; i < 2000; i++ {
		id := uuid.New()
		first := m.IsEnrolled(id, "half")
		assert.Equal(t, first, m.IsEnrolled(id, "half"))
		if first {
			enrolled++
		}
	}
	assert.InDelta(t, 1000, enrolled, 150)
}

func TestLoad(t *testing.T) {
	m, err := Load("")
	require.NoError(t, err)
	assert.False(t, m.IsEnrolled(uuid.New(), "backupMedia"))

	path := filepath.Join(t.TempDir(), "experiments.yaml")
	require.NoError(t, os.WriteFile(path, []byte("experiments:\n  backupMedia:\n    enrollmentPercentage: 100\n"), 0o600))
	m, err = Load(path)
	require.NoError(t, err)
	assert.True(t, m.IsEnrolled(uuid.New(), "backupMedia"))

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
