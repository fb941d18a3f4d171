package twig

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// scriptStep is a single action in a playback script.
type scriptStep struct {
	Action string `yaml:"action"`
	// Target filters the tweens a control action applies to, by id or
	// target. Empty means every tween.
	Target       string     `yaml:"target,omitempty"`
	DT           float64    `yaml:"dt,omitempty"`
	IDT          *float64   `yaml:"idt,omitempty"`
	Channel      UpdateType `yaml:"channel,omitempty"`
	Frames       int        `yaml:"frames,omitempty"`
	To           float64    `yaml:"to,omitempty"`
	Play         bool       `yaml:"play,omitempty"`
	Silent       bool       `yaml:"silent,omitempty"`
	Complete     bool       `yaml:"complete,omitempty"`
	IncludeDelay bool       `yaml:"includeDelay,omitempty"`
}

// script is the top-level structure of a playback script.
type script struct {
	Steps []scriptStep `yaml:"steps"`
}

var scriptActions = map[string]bool{
	"advance": true, "goto": true, "pause": true, "play": true, "kill": true,
	"complete": true, "flip": true, "restart": true, "rewind": true,
}

// ScriptRunner replays a scripted list of frame advances and control
// operations against a Manager, one step per frame. Scripts make timing
// scenarios reproducible in tests and demos.
type ScriptRunner struct {
	steps  []scriptStep
	cursor int
	repeat int
	done   bool
}

// LoadScript parses a YAML (or JSON) playback script:
//
//	steps:
//	  - {action: advance, dt: 0.016, frames: 60}
//	  - {action: pause, target: enemy-7}
//	  - {action: goto, to: 0.5, play: true}
func LoadScript(data []byte) (*ScriptRunner, error) {
	var s script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("parse script: %w", ErrEmptyScript)
	}
	for i, st := range s.Steps {
		if !scriptActions[st.Action] {
			return nil, fmt.Errorf("parse script: step %d: %w: %q", i, ErrUnknownAction, st.Action)
		}
		if st.Channel >= updateTypeCount {
			return nil, fmt.Errorf("parse script: step %d: %w: %d", i, ErrUnknownUpdateType, st.Channel)
		}
	}
	return &ScriptRunner{steps: s.Steps}, nil
}

// Done reports whether every step of the script has been executed.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// Step runs one frame of the script against m.
func (r *ScriptRunner) Step(m *Manager) {
	if r.done {
		return
	}
	if r.repeat > 0 {
		r.repeat--
		r.advance(m, r.steps[r.cursor-1])
		r.checkDone()
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	var filter any
	if st.Target != "" {
		filter = st.Target
	}
	switch st.Action {
	case "advance":
		if st.Frames > 1 {
			r.repeat = st.Frames - 1 // this frame counts as one
		}
		r.advance(m, st)
	case "goto":
		if st.Silent {
			m.GotoSilent(filter, st.To, st.Play)
		} else {
			m.Goto(filter, st.To, st.Play)
		}
	case "pause":
		m.Pause(filter)
	case "play":
		m.Play(filter)
	case "kill":
		m.Kill(filter, st.Complete)
	case "complete":
		m.Complete(filter, true)
	case "flip":
		m.Flip(filter)
	case "restart":
		m.Restart(filter, st.IncludeDelay)
	case "rewind":
		m.Rewind(filter, st.IncludeDelay)
	}

	r.checkDone()
}

// Run steps the script to its end and returns the number of frames it took.
func (r *ScriptRunner) Run(m *Manager) int {
	frames := 0
	for !r.done {
		r.Step(m)
		frames++
	}
	return frames
}

func (r *ScriptRunner) advance(m *Manager, st scriptStep) {
	idt := st.DT
	if st.IDT != nil {
		idt = *st.IDT
	}
	m.sweep(st.Channel, st.DT, idt)
}

func (r *ScriptRunner) checkDone() {
	if r.cursor >= len(r.steps) && r.repeat == 0 {
		r.done = true
	}
}
