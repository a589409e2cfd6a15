// Package config loads tour definitions and server settings.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/devsanthoshmk/home360/pkg/domain"
	"github.com/devsanthoshmk/home360/pkg/registry"
)

// Tour is the on-disk model of a tour file (tour.yaml).
type Tour struct {
	Title       string         `yaml:"title"`
	Description string         `yaml:"description,omitempty"`
	Entry       string         `yaml:"entry,omitempty"`
	Camera      *CameraSection `yaml:"camera,omitempty"`
	Scenes      []domain.Scene `yaml:"scenes"`
}

// CameraSection overrides individual camera limits. Absent fields keep the
// built-in defaults.
type CameraSection struct {
	MinPitch *float64 `yaml:"min_pitch,omitempty"`
	MaxPitch *float64 `yaml:"max_pitch,omitempty"`
	MinHFov  *float64 `yaml:"min_hfov,omitempty"`
	MaxHFov  *float64 `yaml:"max_hfov,omitempty"`
}

// LoadTour reads and parses a tour file.
func LoadTour(path string) (*Tour, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tour file: %w", err)
	}
	return ParseTour(data)
}

// ParseTour parses tour YAML.
func ParseTour(data []byte) (*Tour, error) {
	var t Tour
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse tour file: %w", err)
	}
	return &t, nil
}

// Limits returns the tour's camera limits: the defaults with any Camera
// section overrides applied.
func (t *Tour) Limits() domain.CameraLimits {
	limits := domain.DefaultCameraLimits()
	if t.Camera == nil {
		return limits
	}
	if t.Camera.MinPitch != nil {
		limits.MinPitch = *t.Camera.MinPitch
	}
	if t.Camera.MaxPitch != nil {
		limits.MaxPitch = *t.Camera.MaxPitch
	}
	if t.Camera.MinHFov != nil {
		limits.MinHFov = *t.Camera.MinHFov
	}
	if t.Camera.MaxHFov != nil {
		limits.MaxHFov = *t.Camera.MaxHFov
	}
	return limits
}

// BuildRegistry constructs the validated scene registry of the tour.
func (t *Tour) BuildRegistry() (*registry.Registry, error) {
	return registry.New(t.Entry, t.Scenes...)
}
