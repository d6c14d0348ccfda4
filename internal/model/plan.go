package model

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// PlanVersion is the current plan file format version.
const PlanVersion = 1

// Plan is a declarative coverage description: the signals of the design
// under test and the nets to track over them. Plans are loaded from YAML by
// the CLI; programmatic users build nets directly through the domain API.
type Plan struct {
	Version int          `yaml:"version"`
	Signals []SignalPlan `yaml:"signals"`
	Nets    []NetPlan    `yaml:"nets"`
}

// SignalPlan declares one sampled value of the design under test.
type SignalPlan struct {
	Name  string `yaml:"name"`
	Width int    `yaml:"width"`
}

// NetPlan declares one coverage net. Kind selects the variant; the other
// fields apply per kind and are validated when the plan is built.
type NetPlan struct {
	Kind     string    `yaml:"kind"`
	Name     string    `yaml:"name"`
	Goal     int       `yaml:"goal,omitempty"`
	Bypass   bool      `yaml:"bypass,omitempty"`
	Target   []string  `yaml:"target,omitempty"`
	Source   []string  `yaml:"source,omitempty"`
	Sink     []string  `yaml:"sink,omitempty"`
	Span     *SpanPlan `yaml:"span,omitempty"`
	MaxSteps int       `yaml:"max_steps,omitempty"`
	MaxBins  int       `yaml:"max_bins,omitempty"`
	Bins     []int64   `yaml:"bins,omitempty"`
	Nets     []string  `yaml:"nets,omitempty"`
}

// SpanPlan is a half-open integer interval [start, stop).
type SpanPlan struct {
	Start int64 `yaml:"start"`
	Stop  int64 `yaml:"stop"`
}

// DecodePlan parses a YAML coverage plan.
func DecodePlan(data []byte) (Plan, error) {
	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return Plan{}, fmt.Errorf("failed to parse coverage plan: %w", err)
	}

	return plan, nil
}

// EncodePlan renders a coverage plan as YAML.
func EncodePlan(plan Plan) ([]byte, error) {
	data, err := yaml.Marshal(plan)
	if err != nil {
		return nil, fmt.Errorf("failed to encode coverage plan: %w", err)
	}

	return data, nil
}
