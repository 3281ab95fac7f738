package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"strconv"
	"time"

	"github.com/mrdg/audiograph/audio"
	"github.com/mrdg/audiograph/dub"
)

const wobbleInterval = 10 * time.Millisecond

type command struct {
	name  string
	arity int // negative means at least -arity arguments
	run   func(e *env, args []dub.Node) (string, error)
}

var commands []command

func init() {
	commands = []command{
		{name: "tone", arity: -2, run: toneCmd},
		{name: "note", arity: 2, run: noteCmd},
		{name: "play", arity: 2, run: playCmd},
		{name: "set", arity: 3, run: setCmd},
		{name: "get", arity: 2, run: getCmd},
		{name: "wobble", arity: 3, run: wobbleCmd},
		{name: "still", arity: 1, run: stillCmd},
		{name: "stop", arity: 1, run: stopCmd},
		{name: "ls", arity: 0, run: lsCmd},
	}
}

var (
	errNameInUse   = errors.New("name in use")
	errUnknownName = errors.New("unknown sound")
	errNotAttached = errors.New("sound is not playing yet")
)

func toneCmd(e *env, args []dub.Node) (string, error) {
	var (
		name  string
		tone  audio.Tone
		phase float64
	)
	if len(args) > 3 {
		return "", fmt.Errorf("too many arguments")
	}
	if err := readArgs(args[:2], &name, &tone.Frequency); err != nil {
		return "", err
	}
	if len(args) == 3 {
		if err := readArgs(args[2:], &phase); err != nil {
			return "", err
		}
		tone.Phase = phase
	}
	return "", e.playTone(name, tone)
}

func noteCmd(e *env, args []dub.Node) (string, error) {
	var (
		name string
		note int
	)
	if err := readArgs(args, &name, &note); err != nil {
		return "", err
	}
	return "", e.playTone(name, audio.Note(note))
}

func playCmd(e *env, args []dub.Node) (string, error) {
	var name, file string
	if err := readArgs(args, &name, &file); err != nil {
		return "", err
	}
	return "", e.playFile(name, file)
}

func setCmd(e *env, args []dub.Node) (string, error) {
	var name, prop string
	if err := readArgs(args[:2], &name, &prop); err != nil {
		return "", err
	}
	ctl, err := e.control(name)
	if err != nil {
		return "", err
	}
	return "", ctl.Set(prop, value(args[2]))
}

func getCmd(e *env, args []dub.Node) (string, error) {
	var name, prop string
	if err := readArgs(args, &name, &prop); err != nil {
		return "", err
	}
	ctl, err := e.control(name)
	if err != nil {
		return "", err
	}
	v, err := ctl.Get(prop)
	if err != nil {
		return "", err
	}
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(f, 'g', 10, 64), nil
	}
	return fmt.Sprint(v), nil
}

func wobbleCmd(e *env, args []dub.Node) (string, error) {
	var (
		name          string
		octaves, rate float64
	)
	if err := readArgs(args, &name, &octaves, &rate); err != nil {
		return "", err
	}
	return "", e.wobble(name, octaves, rate)
}

func stillCmd(e *env, args []dub.Node) (string, error) {
	var name string
	if err := readArgs(args, &name); err != nil {
		return "", err
	}
	v, ok := e.voices[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", errUnknownName, name)
	}
	v.still()
	return "", nil
}

func stopCmd(e *env, args []dub.Node) (string, error) {
	var name string
	if err := readArgs(args, &name); err != nil {
		return "", err
	}
	return "", e.stop(name)
}

func lsCmd(e *env, _ []dub.Node) (string, error) {
	return renderVoices(e.listVoices()), nil
}

func (e *env) playTone(name string, tone audio.Tone) error {
	if err := e.reserve(name); err != nil {
		return err
	}
	h := audio.Play[audio.ToneControl](e.binder, tone)
	e.voices[name] = &voice{
		name:    name,
		kind:    "tone",
		source:  fmt.Sprintf("%g Hz", tone.Frequency),
		request: h.ID(),
	}
	return nil
}

func (e *env) playFile(name, file string) error {
	if err := e.reserve(name); err != nil {
		return err
	}
	sound, err := e.loadSound(file)
	if err != nil {
		return err
	}
	h := audio.Play[audio.PlaybackControl](e.binder, sound.Playback())
	e.voices[name] = &voice{
		name:    name,
		kind:    "playback",
		source:  filepath.Base(file),
		request: h.ID(),
	}
	return nil
}

func (e *env) loadSound(file string) (*audio.Sound, error) {
	if s, ok := e.sounds[file]; ok {
		return s, nil
	}
	s, err := audio.LoadSound(file)
	if err != nil {
		return nil, err
	}
	if sr := e.engine.SampleRate(); float64(s.SampleRate) != sr {
		slog.Warn("sample rate mismatch, sound will play at the wrong speed",
			"file", file, "file_rate", s.SampleRate, "engine_rate", sr)
	}
	e.sounds[file] = s
	return s, nil
}

// reserve makes name available for a new sound. A name can be reused once
// the sound it referred to has finished.
func (e *env) reserve(name string) error {
	v, ok := e.voices[name]
	if !ok {
		return nil
	}
	if e.state(v) != stateFinished {
		return fmt.Errorf("%w: %s", errNameInUse, name)
	}
	v.still()
	e.binder.Forget(v.request)
	delete(e.voices, name)
	return nil
}

func (e *env) control(name string) (audio.Control, error) {
	v, ok := e.voices[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errUnknownName, name)
	}
	b, ok := e.binder.Lookup(v.request)
	if !ok {
		return nil, fmt.Errorf("%w: %s", errNotAttached, name)
	}
	return b.Control, nil
}

func (e *env) wobble(name string, octaves, rate float64) error {
	v, ok := e.voices[name]
	if !ok {
		return fmt.Errorf("%w: %s", errUnknownName, name)
	}
	b, ok := e.binder.Lookup(v.request)
	if !ok {
		return fmt.Errorf("%w: %s", errNotAttached, name)
	}
	ctl, ok := b.Control.(audio.ToneControl)
	if !ok {
		return fmt.Errorf("%s is a %s, only tones can wobble", name, v.kind)
	}
	v.still()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	v.wobble = func() {
		cancel()
		<-done
	}
	go func() {
		defer close(done)
		modulate(ctx, e.engine, b.Node, ctl, octaves, rate)
	}()
	return nil
}

// modulate moves the frequency of ctl around its current value until ctx is
// done or the node stops playing. The frequency is restored when it stops.
func modulate(ctx context.Context, engine *audio.Engine, node audio.NodeID, ctl audio.ToneControl, octaves, rate float64) {
	base := ctl.Frequency()
	start := time.Now()
	ticker := time.NewTicker(wobbleInterval)
	defer ticker.Stop()
	defer ctl.SetFrequency(base)

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if !engine.Playing(node) {
				return
			}
			ctl.SetFrequency(wobbleFrequency(base, octaves, rate, now.Sub(start)))
		}
	}
}

func wobbleFrequency(base, octaves, rate float64, t time.Duration) float64 {
	return base * math.Pow(2, octaves*math.Sin(2*math.Pi*rate*t.Seconds()))
}

func (e *env) stop(name string) error {
	v, ok := e.voices[name]
	if !ok {
		return fmt.Errorf("%w: %s", errUnknownName, name)
	}
	v.still()
	if b, ok := e.binder.Lookup(v.request); ok {
		e.engine.Remove(b.Node)
	}
	e.binder.Forget(v.request)
	delete(e.voices, name)
	return nil
}

// still stops modulation and waits until the frequency has been restored.
func (v *voice) still() {
	if v.wobble != nil {
		v.wobble()
		v.wobble = nil
	}
}
