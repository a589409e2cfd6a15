package dsl

import "github.com/devsanthoshmk/home360/pkg/domain"

// SceneBuilder configures a single scene through chained calls. Obtain one
// from Builder.Scene; every method returns the receiver.
type SceneBuilder struct {
	scene domain.Scene
}

// Title sets the display title shown in scene cards and viewer chrome.
func (s *SceneBuilder) Title(title string) *SceneBuilder {
	s.scene.Title = title
	return s
}

// Describe sets the longer descriptive text for the scene.
func (s *SceneBuilder) Describe(text string) *SceneBuilder {
	s.scene.Description = text
	return s
}

// Image sets the path or URL of the scene's equirectangular panorama.
func (s *SceneBuilder) Image(location string) *SceneBuilder {
	s.scene.Image = location
	return s
}

// View sets the camera pose applied when the scene is entered. Yaw and pitch
// are in degrees; hfov is the horizontal field of view.
func (s *SceneBuilder) View(yaw, pitch, hfov float64) *SceneBuilder {
	s.scene.InitialView = domain.View{Yaw: yaw, Pitch: pitch, HFov: hfov}
	return s
}

// Exit adds a hotspot leading to the target scene, placed at the panorama's
// forward direction with no label. Use ExitAt to position and label it.
func (s *SceneBuilder) Exit(target string) *SceneBuilder {
	s.scene.Hotspots = append(s.scene.Hotspots, domain.Hotspot{Target: target})
	return s
}

// ExitAt adds a hotspot leading to the target scene, positioned at the given
// yaw/pitch in degrees and labeled for the marker.
func (s *SceneBuilder) ExitAt(target string, yaw, pitch float64, label string) *SceneBuilder {
	s.scene.Hotspots = append(s.scene.Hotspots, domain.Hotspot{
		Target: target,
		Yaw:    yaw,
		Pitch:  pitch,
		Label:  label,
	})
	return s
}

// Accent sets the cosmetic accent color used for the scene's hotspot markers.
func (s *SceneBuilder) Accent(color string) *SceneBuilder {
	s.scene.AccentColor = color
	return s
}

// ViewerOption attaches a loosely-typed per-scene viewer override. Adapters
// decode the keys they understand and ignore the rest.
func (s *SceneBuilder) ViewerOption(key string, value any) *SceneBuilder {
	if s.scene.ViewerOptions == nil {
		s.scene.ViewerOptions = make(map[string]any)
	}
	s.scene.ViewerOptions[key] = value
	return s
}

// Build returns the scene as configured so far.
func (s *SceneBuilder) Build() domain.Scene {
	return s.scene
}
