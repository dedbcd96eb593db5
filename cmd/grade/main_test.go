package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/gradebook/internal/common"
	"github.com/Veraticus/gradebook/internal/gradefile"
	"github.com/Veraticus/gradebook/internal/model"
)

const starterManifest = `items:
  - {id: 1, name: Bulbasaur, tier: 1, categories: [Grass, Poison]}
  - {id: 2, name: Ivysaur, tier: 1, categories: [Grass, Poison]}
  - {id: 3, name: Venusaur, tier: 1, categories: [Grass, Poison]}
  - {id: 4, name: Charmander, tier: 1, categories: [Fire]}
  - {id: 5, name: Charmeleon, tier: 1, categories: [Fire]}
  - {id: 6, name: Charizard, tier: 1, categories: [Fire, Flying]}
  - {id: 7, name: Chikorita, tier: 2, categories: [Grass]}
  - {id: 8, name: Cyndaquil, tier: 2, categories: [Fire]}
  - {id: 9, name: Totodile, tier: 2, categories: [Water]}
groups:
  - [1, 2, 3]
  - [4, 5, 6]
  - [7]
  - [8, 9]
`

type cliEnv struct {
	dir      string
	manifest string
}

func setupEnv(t *testing.T) cliEnv {
	t.Helper()
	root := t.TempDir()

	t.Setenv("HOME", root)
	t.Setenv("GRADE_DATABASE_PATH", filepath.Join(root, "catalog.db"))
	t.Setenv("GRADE_GRADEBOOK_DIR", filepath.Join(root, "books"))
	t.Setenv("GRADE_LOGGING_LEVEL", "error")

	manifest := filepath.Join(root, "starters.yaml")
	require.NoError(t, os.WriteFile(manifest, []byte(starterManifest), 0o600))

	return cliEnv{dir: filepath.Join(root, "books"), manifest: manifest}
}

func run(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(input))
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func readGrades(t *testing.T, env cliEnv, name string) []int {
	t.Helper()
	files, err := gradefile.NewFileStore(env.dir)
	require.NoError(t, err)
	book, err := files.Read(context.Background(), name)
	require.NoError(t, err)
	return book.Grades
}

func TestCommands_GradingWorkflow(t *testing.T) {
	env := setupEnv(t)

	origConfirm := confirmOverwrite
	confirmOverwrite = func(string) (bool, error) { return false, nil }
	t.Cleanup(func() { confirmOverwrite = origConfirm })

	out, err := run(t, "", "catalog", "import", env.manifest)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 9 items in 4 groups")

	out, err = run(t, "", "catalog", "categories")
	require.NoError(t, err)
	assert.Equal(t, "Fire\nFlying\nGrass\nPoison\nWater\n", out)

	out, err = run(t, "", "new", "starters", "--scale", model.PresetTierList)
	require.NoError(t, err)
	assert.Contains(t, out, "Created starters with 9 items")
	assert.Equal(t, []int{0, 0, 0, 0, 0, 0, 0, 0, 0}, readGrades(t, env, "starters"))

	out, err = run(t, "", "new", "starters", "--scale", model.PresetFive)
	if isTerminal() {
		require.NoError(t, err)
		assert.Contains(t, out, "Kept the existing starters gradebook")
	} else {
		require.ErrorIs(t, err, common.ErrConflict)
		assert.Contains(t, common.UserMessage(err), "--force")
	}

	out, err = run(t, "", "autofill", "--name", "starters", "--dry-run", "--rule", "Water -> F")
	require.NoError(t, err)
	assert.Contains(t, out, "Totodile")
	assert.Contains(t, out, "Would grade 1 items in starters")
	assert.Equal(t, []int{0, 0, 0, 0, 0, 0, 0, 0, 0}, readGrades(t, env, "starters"))

	out, err = run(t, "", "autofill", "--name", "starters", "--rule", "Grass -> S")
	require.NoError(t, err)
	assert.Contains(t, out, "Autofilled 4 items in starters")
	assert.Equal(t, []int{6, 6, 6, 0, 0, 0, 6, 0, 0}, readGrades(t, env, "starters"))

	// Resumes on the group holding the first ungraded item.
	out, err = run(t, "5\nq\n", "start", "--name", "starters", "--plain")
	require.NoError(t, err)
	assert.Contains(t, out, "Charmander")
	assert.Equal(t, []int{6, 6, 6, 5, 5, 5, 6, 0, 0}, readGrades(t, env, "starters"))

	out, err = run(t, "", "stats", "--name", "starters")
	require.NoError(t, err)
	assert.Contains(t, out, "7 of 9 items graded, 2 remaining")

	out, err = run(t, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "starters")
	assert.Contains(t, out, "F,D,C,B,A,S")
	assert.Contains(t, out, "7/9")

	out, err = run(t, "", "new", "starters", "--labels", "no,yes", "--force")
	require.NoError(t, err)
	assert.Contains(t, out, "Created starters")
	assert.Equal(t, []int{0, 0, 0, 0, 0, 0, 0, 0, 0}, readGrades(t, env, "starters"))
}

func TestCommands_Errors(t *testing.T) {
	env := setupEnv(t)

	_, err := run(t, "", "new", "starters", "--scale", model.PresetFive)
	require.ErrorIs(t, err, common.ErrNotFound, "empty catalog")

	_, err = run(t, "", "catalog", "import", env.manifest)
	require.NoError(t, err)

	_, err = run(t, "", "start", "--name", "missing", "--plain")
	require.ErrorIs(t, err, common.ErrNotFound)
	assert.Contains(t, common.UserMessage(err), "grade new missing")

	_, err = run(t, "", "autofill", "--name", "missing")
	require.ErrorIs(t, err, common.ErrValidation)

	_, err = run(t, "", "new", "../escape", "--scale", model.PresetFive)
	require.Error(t, err)

	_, err = run(t, "", "new", "starters", "--scale", model.PresetFive)
	require.NoError(t, err)

	_, err = run(t, "", "autofill", "--name", "starters", "--rule", "Fire")
	require.ErrorIs(t, err, common.ErrInvalidRule)

	_, err = run(t, "", "catalog", "import", filepath.Join(env.dir, "nope.yaml"))
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestVersionCommand(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "grade dev\n", out)
}

func TestResolveScale(t *testing.T) {
	tests := []struct {
		wantErr error
		name    string
		preset  string
		labels  string
		want    []string
	}{
		{name: "preset", preset: model.PresetTierList, want: []string{"F", "D", "C", "B", "A", "S"}},
		{name: "labels are trimmed", labels: "bad, good ,great", want: []string{"bad", "good", "great"}},
		{name: "both flags", preset: model.PresetFive, labels: "a,b", wantErr: common.ErrValidation},
		{name: "unknown preset", preset: "stars", wantErr: common.ErrInvalidScale},
		{name: "empty label", labels: "a,,b", wantErr: common.ErrInvalidScale},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scale, err := resolveScale(tt.preset, tt.labels)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, scale.Labels)
		})
	}
}
