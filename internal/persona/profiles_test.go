package persona

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const profileYAML = `personas:
  - id: haru
    name: 하루
    profile: 일정 관리 비서
    active: true
  - id: dorae
    name: 도래
    profile: 감성적인 일기 친구
    active: false
  - id: miri
    name: 미리
    profile: 현실적인 계획 조언가
    active: true
`

func writeProfiles(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "personas.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestProfileStore_ActiveFiltersAndOrders(t *testing.T) {
	store, err := NewProfileStore(writeProfiles(t, profileYAML))
	require.NoError(t, err)

	active := store.Active()
	require.Len(t, active, 2)
	assert.Equal(t, "haru", active[0].ID)
	assert.Equal(t, "miri", active[1].ID)
}

func TestProfileStore_MissingFileFallsBackToDefault(t *testing.T) {
	store, err := NewProfileStore(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	active := store.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "haru", active[0].ID)
	assert.Equal(t, "하루", active[0].Name)
}

func TestProfileStore_EmptyFileFallsBackToDefault(t *testing.T) {
	store, err := NewProfileStore(writeProfiles(t, "personas: []\n"))
	require.NoError(t, err)
	require.Len(t, store.Active(), 1)
}

func TestProfileStore_MalformedFileErrors(t *testing.T) {
	_, err := NewProfileStore(writeProfiles(t, "personas: [unclosed"))
	assert.Error(t, err)
}

func TestProfileStore_ActiveCap(t *testing.T) {
	content := "personas:\n"
	for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
		content += "  - id: " + id + "\n    name: " + id + "\n    active: true\n"
	}
	store, err := NewProfileStore(writeProfiles(t, content))
	require.NoError(t, err)

	active := store.Active()
	require.Len(t, active, MaxActivePersonas)
	assert.Equal(t, "a", active[0].ID)
	assert.Equal(t, "d", active[len(active)-1].ID)
}

func TestProfileStore_ReloadKeepsPreviousOnFailure(t *testing.T) {
	path := writeProfiles(t, profileYAML)
	store, err := NewProfileStore(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("personas: [broken"), 0o644))
	store.refresh()

	active := store.Active()
	require.Len(t, active, 2)
	assert.Equal(t, "haru", active[0].ID)
}

func TestProfileStore_ReloadPicksUpChanges(t *testing.T) {
	path := writeProfiles(t, profileYAML)
	store, err := NewProfileStore(path)
	require.NoError(t, err)

	updated := `personas:
  - id: sori
    name: 소리
    active: true
`
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))
	store.refresh()

	active := store.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "sori", active[0].ID)
}
