package session

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"hoverplayer/pkg/html"
)

// Step is one entry of a pointer script:
//
//	- move: [120, 48]
//	- scroll: [0, 300]
type Step struct {
	Move   []float64 `yaml:"move,omitempty"`
	Scroll []float64 `yaml:"scroll,omitempty"`
}

func (s Step) validate() error {
	switch {
	case s.Move != nil && s.Scroll != nil:
		return errors.New("step has both move and scroll")
	case s.Move != nil:
		if len(s.Move) != 2 {
			return fmt.Errorf("move needs [x, y], got %d values", len(s.Move))
		}
	case s.Scroll != nil:
		if len(s.Scroll) != 2 {
			return fmt.Errorf("scroll needs [x, y], got %d values", len(s.Scroll))
		}
	default:
		return errors.New("step has neither move nor scroll")
	}
	return nil
}

// ParseScript decodes a YAML list of steps.
func ParseScript(r io.Reader) ([]Step, error) {
	var steps []Step
	if err := yaml.NewDecoder(r).Decode(&steps); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decoding pointer script: %w", err)
	}
	for i, s := range steps {
		if err := s.validate(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return steps, nil
}

// Result is the hover state observed after one step.
type Result struct {
	Step       int
	Action     string
	X, Y       float64
	Element    *html.Node
	Top, Left  float64
	LineHeight int
}

// Replay applies steps in order and records the coordinator's answer after
// each one.
func (s *Session) Replay(steps []Step) []Result {
	results := make([]Result, 0, len(steps))
	for i, step := range steps {
		r := Result{Step: i + 1}
		if step.Move != nil {
			r.Action, r.X, r.Y = "move", step.Move[0], step.Move[1]
			s.Window.MoveMouse(r.X, r.Y)
		} else {
			r.Action, r.X, r.Y = "scroll", step.Scroll[0], step.Scroll[1]
			s.Window.ScrollTo(r.X, r.Y)
		}
		if info := s.Coordinator.Info(); info != nil {
			r.Element = info.Element
			r.Top, r.Left = info.Top, info.Left
			r.LineHeight = info.HeightOfFirstLine
		}
		results = append(results, r)
	}
	return results
}
