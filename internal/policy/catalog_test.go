package policy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTitleFromID(t *testing.T) {
	assert.Equal(t, "Performance Management", TitleFromID("PerformanceManagement"))
	assert.Equal(t, "Amending Job Title", TitleFromID("AmendingJobTitle"))
	assert.Equal(t, "Planning", TitleFromID("Planning"))
}

func TestLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policies.yaml")
	content := `policies:
  - id: PerformanceManagement
    framework_text: Articles No. (117) and (119).
  - id: HumanResourcesPlanning
    title: HR Planning
    framework_text: Annual workforce plan.
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	catalog, err := LoadCatalog(path)
	require.NoError(t, err)
	require.Len(t, catalog, 2)

	// Заголовок выводится из id, если не задан явно
	assert.Equal(t, "Performance Management", catalog[0].Title)
	assert.Equal(t, "HR Planning", catalog[1].Title)
}

func TestLoadCatalogValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policies.yaml")
	require.NoError(t, os.WriteFile(path, []byte("policies:\n  - id: NoFramework\n"), 0o644))

	_, err := LoadCatalog(path)
	assert.Error(t, err)
}
