package domain

// Scene describes one navigable room of the tour: a single equirectangular
// panorama, the camera pose applied on entry, and the hotspots linking it to
// other rooms. Scenes are declared once in the tour config and never mutated.
type Scene struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Image locates the 2:1 equirectangular asset (path or URL).
	// The aspect ratio is assumed, not enforced; `home360 validate
	// --check-assets` can probe local files.
	Image string `json:"image" yaml:"image"`

	// InitialView is the camera pose applied when the scene is entered.
	// It is clamped against the tour's CameraLimits before reaching a viewer.
	InitialView View `json:"initial_view" yaml:"initial_view"`

	// Hotspots are the declarative edges out of this scene, in display order.
	Hotspots []Hotspot `json:"hotspots,omitempty" yaml:"hotspots,omitempty"`

	// AccentColor is cosmetic (hotspot tint in the web viewer).
	AccentColor string `json:"accent_color,omitempty" yaml:"accent_color,omitempty"`

	// ViewerOptions carries loosely-typed per-scene viewer overrides
	// (e.g. autorotate speed). Adapters decode what they understand and
	// ignore the rest.
	ViewerOptions map[string]any `json:"viewer_options,omitempty" yaml:"viewer,omitempty"`
}

// Hotspot is a directional marker inside a scene's panorama that navigates to
// another scene when activated. Hotspots carry no conditional logic: activating
// one is exactly a NavigateTo(Target).
type Hotspot struct {
	Target string  `json:"target" yaml:"target"`
	Yaw    float64 `json:"yaw" yaml:"yaw"`
	Pitch  float64 `json:"pitch" yaml:"pitch"`
	Label  string  `json:"label,omitempty" yaml:"label,omitempty"`
}
