package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScene(t *testing.T) {
	scene, err := parseScene([]byte(`
sounds:
  - name: drone
    tone:
      freq: 110
      phase: 1.5
  - name: a4
    note: 69
  - name: loop
    file: loop.wav
`))
	require.NoError(t, err)
	require.Len(t, scene.Sounds, 3)

	assert.Equal(t, "drone", scene.Sounds[0].Name)
	require.NotNil(t, scene.Sounds[0].Tone)
	assert.Equal(t, SceneTone{Frequency: 110, Phase: 1.5}, *scene.Sounds[0].Tone)
	require.NotNil(t, scene.Sounds[1].Note)
	assert.Equal(t, 69, *scene.Sounds[1].Note)
	assert.Equal(t, "loop.wav", scene.Sounds[2].File)
}

func TestParseSceneEmpty(t *testing.T) {
	scene, err := parseScene(nil)
	require.NoError(t, err)
	assert.Empty(t, scene.Sounds)
}

func TestParseSceneErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		err   string
	}{
		{
			name:  "missing name",
			input: "sounds:\n  - note: 60\n",
			err:   "missing required field: name",
		},
		{
			name:  "no source",
			input: "sounds:\n  - name: a\n",
			err:   "need exactly one",
		},
		{
			name:  "two sources",
			input: "sounds:\n  - name: a\n    note: 60\n    file: x.wav\n",
			err:   "need exactly one",
		},
		{
			name:  "duplicate",
			input: "sounds:\n  - name: a\n    note: 60\n  - name: a\n    note: 62\n",
			err:   "duplicate name",
		},
		{
			name:  "unknown field",
			input: "sounds:\n  - name: a\n    volume: 1\n",
			err:   "parsing scene",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseScene([]byte(tt.input))
			assert.ErrorContains(t, err, tt.err)
		})
	}
}

func TestLoadSceneResolvesFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.yaml")
	data := "sounds:\n  - name: a\n    file: a.wav\n  - name: b\n    file: /abs/b.wav\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	scene, err := loadScene(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a.wav"), scene.Sounds[0].File)
	assert.Equal(t, "/abs/b.wav", scene.Sounds[1].File)

	_, err = loadScene(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestPlayScene(t *testing.T) {
	e, backend := newTestEnv(t)
	dir := t.TempDir()
	writeWav(t, dir, []int16{100, 200})
	path := filepath.Join(dir, "scene.yaml")
	data := "sounds:\n  - name: drone\n    tone:\n      freq: 110\n  - name: a4\n    note: 69\n  - name: s\n    file: sample.wav\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	scene, err := loadScene(path)
	require.NoError(t, err)
	require.NoError(t, e.playScene(scene))
	assert.Len(t, e.voices, 3)

	assert.Equal(t, 3, e.binder.Update())
	assert.Len(t, e.engine.Nodes(), 3)
	assert.Equal(t, "110", mustEval(t, e, "get drone freq"))
	assert.Equal(t, "440", mustEval(t, e, "get a4 freq"))

	backend.Render(1)
	assert.Len(t, e.engine.Nodes(), 2)
}

func TestPlaySceneReportsEveryFailure(t *testing.T) {
	e, _ := newTestEnv(t)
	scene := &Scene{Sounds: []SceneSound{
		{Name: "x", File: "nope.wav"},
		{Name: "ok", Tone: &SceneTone{Frequency: 220}},
		{Name: "y", File: "nope.flac"},
	}}

	err := e.playScene(scene)
	assert.ErrorContains(t, err, "sound x")
	assert.ErrorContains(t, err, "sound y")
	assert.Contains(t, e.voices, "ok")
}
