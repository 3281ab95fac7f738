package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mrdg/audiograph/audio"
	"gopkg.in/yaml.v3"
)

// Scene lists sounds to play at startup.
type Scene struct {
	Sounds []SceneSound `yaml:"sounds"`
}

// SceneSound is a named tone, note or file. Exactly one of them is set.
type SceneSound struct {
	Name string     `yaml:"name"`
	Tone *SceneTone `yaml:"tone"`
	Note *int       `yaml:"note"`
	File string     `yaml:"file"`
}

type SceneTone struct {
	Frequency float64 `yaml:"freq"`
	Phase     float64 `yaml:"phase"`
}

func loadScene(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	scene, err := parseScene(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	dir := filepath.Dir(path)
	for i := range scene.Sounds {
		if f := scene.Sounds[i].File; f != "" && !filepath.IsAbs(f) {
			scene.Sounds[i].File = filepath.Join(dir, f)
		}
	}
	return scene, nil
}

func parseScene(data []byte) (*Scene, error) {
	var scene Scene
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scene); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing scene: %w", err)
	}

	seen := make(map[string]bool)
	for i, s := range scene.Sounds {
		if s.Name == "" {
			return nil, fmt.Errorf("sound %d: missing required field: name", i)
		}
		if seen[s.Name] {
			return nil, fmt.Errorf("sound %s: duplicate name", s.Name)
		}
		seen[s.Name] = true

		sources := 0
		if s.Tone != nil {
			sources++
		}
		if s.Note != nil {
			sources++
		}
		if s.File != "" {
			sources++
		}
		if sources != 1 {
			return nil, fmt.Errorf("sound %s: need exactly one of tone, note or file", s.Name)
		}
	}
	return &scene, nil
}

func (e *env) playScene(scene *Scene) error {
	var errs []error
	for _, s := range scene.Sounds {
		var err error
		switch {
		case s.Tone != nil:
			err = e.playTone(s.Name, audio.Tone{Frequency: s.Tone.Frequency, Phase: s.Tone.Phase})
		case s.Note != nil:
			err = e.playTone(s.Name, audio.Note(*s.Note))
		default:
			err = e.playFile(s.Name, s.File)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("sound %s: %w", s.Name, err))
		}
	}
	return errors.Join(errs...)
}
