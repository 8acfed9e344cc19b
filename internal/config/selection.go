// Package config loads the window selection configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/UT-GlobalSeismology/Kibrary-sub009/internal/timewindow"
)

// SelectionConfig is the JSON-backed configuration for a window selection
// run. Fields use pointers so a partial config file can override just the
// values it names; the Get* accessors supply defaults for the rest.
type SelectionConfig struct {
	// Phase selection
	UsePhases   []string `json:"use_phases"`
	AvoidPhases []string `json:"avoid_phases,omitempty"`

	// Window shifts in seconds around use and avoid arrivals
	FrontShift      *float64 `json:"front_shift,omitempty"`
	RearShift       *float64 `json:"rear_shift,omitempty"`
	AvoidFrontShift *float64 `json:"avoid_front_shift,omitempty"`
	AvoidRearShift  *float64 `json:"avoid_rear_shift,omitempty"`

	// Policy knobs
	MinLength        *float64 `json:"min_length,omitempty"`
	AllowSplit       *bool    `json:"allow_split,omitempty"`
	FirstArrivalOnly *bool    `json:"first_arrival_only,omitempty"`
	AllowMajorArc    *bool    `json:"allow_major_arc,omitempty"`

	// Workers sizes the event worker pool; zero or absent means one worker
	// per CPU.
	Workers *int `json:"workers,omitempty"`
}

// LoadSelectionConfig loads a SelectionConfig from a JSON file. Fields
// omitted from the file retain their defaults, so partial configs are safe.
func LoadSelectionConfig(path string) (*SelectionConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &SelectionConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration values are usable.
func (c *SelectionConfig) Validate() error {
	if len(c.UsePhases) == 0 {
		return fmt.Errorf("use_phases must name at least one phase")
	}
	seen := make(map[string]struct{}, len(c.UsePhases))
	for _, p := range c.UsePhases {
		if p == "" {
			return fmt.Errorf("use_phases contains an empty name")
		}
		if _, dup := seen[p]; dup {
			return fmt.Errorf("use_phases names %q twice", p)
		}
		seen[p] = struct{}{}
	}
	for _, p := range c.AvoidPhases {
		if p == "" {
			return fmt.Errorf("avoid_phases contains an empty name")
		}
		if _, dup := seen[p]; dup {
			return fmt.Errorf("phase %q appears in both use_phases and avoid_phases", p)
		}
	}

	if c.MinLength != nil && *c.MinLength < 0 {
		return fmt.Errorf("min_length must be non-negative, got %f", *c.MinLength)
	}
	if c.Workers != nil && *c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", *c.Workers)
	}
	if c.GetFrontShift()+c.GetRearShift() <= 0 {
		return fmt.Errorf("front_shift + rear_shift must be positive")
	}
	return nil
}

// GetFrontShift returns the front_shift value or the default.
func (c *SelectionConfig) GetFrontShift() float64 {
	if c.FrontShift == nil {
		return 20.0
	}
	return *c.FrontShift
}

// GetRearShift returns the rear_shift value or the default.
func (c *SelectionConfig) GetRearShift() float64 {
	if c.RearShift == nil {
		return 60.0
	}
	return *c.RearShift
}

// GetAvoidFrontShift returns the avoid_front_shift value or the default.
func (c *SelectionConfig) GetAvoidFrontShift() float64 {
	if c.AvoidFrontShift == nil {
		return 5.0
	}
	return *c.AvoidFrontShift
}

// GetAvoidRearShift returns the avoid_rear_shift value or the default.
func (c *SelectionConfig) GetAvoidRearShift() float64 {
	if c.AvoidRearShift == nil {
		return 60.0
	}
	return *c.AvoidRearShift
}

// GetMinLength returns the min_length value or the default.
func (c *SelectionConfig) GetMinLength() float64 {
	if c.MinLength == nil {
		return 0
	}
	return *c.MinLength
}

// GetAllowSplit returns the allow_split value or the default.
func (c *SelectionConfig) GetAllowSplit() bool {
	if c.AllowSplit == nil {
		return false
	}
	return *c.AllowSplit
}

// GetFirstArrivalOnly returns the first_arrival_only value or the default.
func (c *SelectionConfig) GetFirstArrivalOnly() bool {
	if c.FirstArrivalOnly == nil {
		return false
	}
	return *c.FirstArrivalOnly
}

// GetAllowMajorArc returns the allow_major_arc value or the default.
func (c *SelectionConfig) GetAllowMajorArc() bool {
	if c.AllowMajorArc == nil {
		return false
	}
	return *c.AllowMajorArc
}

// GetWorkers returns the workers value or the default.
func (c *SelectionConfig) GetWorkers() int {
	if c.Workers == nil {
		return 0
	}
	return *c.Workers
}

// BuilderParams maps the configuration onto window construction parameters.
func (c *SelectionConfig) BuilderParams() timewindow.Params {
	return timewindow.Params{
		FrontShift:       c.GetFrontShift(),
		RearShift:        c.GetRearShift(),
		AvoidFrontShift:  c.GetAvoidFrontShift(),
		AvoidRearShift:   c.GetAvoidRearShift(),
		MinLength:        c.GetMinLength(),
		AllowSplit:       c.GetAllowSplit(),
		FirstArrivalOnly: c.GetFirstArrivalOnly(),
		AllowMajorArc:    c.GetAllowMajorArc(),
	}
}
