package domain

// Default camera policy, in degrees. These mirror the viewer library's own
// defaults so a bare config behaves identically in every rendering mode.
const (
	DefaultMinPitch = -50.0
	DefaultMaxPitch = 50.0
	DefaultMinHFov  = 50.0
	DefaultMaxHFov  = 120.0

	// DefaultHFov is applied when a scene omits its horizontal field of view.
	DefaultHFov = 105.0
)

// View is a camera pose inside a spherical image: yaw/pitch in degrees plus
// the horizontal field of view (perceived zoom).
type View struct {
	Yaw   float64 `json:"yaw" yaml:"yaw"`
	Pitch float64 `json:"pitch" yaml:"pitch"`
	HFov  float64 `json:"hfov" yaml:"hfov"`
}

// CameraLimits is the global viewport policy: a symmetric-ish pitch clamp that
// keeps the camera away from the distorted poles, and an HFov range bounding
// zoom. The limits are reasserted on every viewer construction because scene
// swaps always produce a fresh viewer instance.
type CameraLimits struct {
	MinPitch float64 `json:"min_pitch" yaml:"min_pitch"`
	MaxPitch float64 `json:"max_pitch" yaml:"max_pitch"`
	MinHFov  float64 `json:"min_hfov" yaml:"min_hfov"`
	MaxHFov  float64 `json:"max_hfov" yaml:"max_hfov"`
}

// DefaultCameraLimits returns the stock policy (pitch ±50°, HFov 50–120°).
func DefaultCameraLimits() CameraLimits {
	return CameraLimits{
		MinPitch: DefaultMinPitch,
		MaxPitch: DefaultMaxPitch,
		MinHFov:  DefaultMinHFov,
		MaxHFov:  DefaultMaxHFov,
	}
}

// Clamp returns v with pitch and HFov forced into the limits. A zero HFov
// (scene omitted it) becomes DefaultHFov before clamping. Yaw is left alone;
// panoramas wrap horizontally.
func (c CameraLimits) Clamp(v View) View {
	if v.HFov == 0 {
		v.HFov = DefaultHFov
	}
	v.Pitch = clamp(v.Pitch, c.MinPitch, c.MaxPitch)
	v.HFov = clamp(v.HFov, c.MinHFov, c.MaxHFov)
	return v
}

// Contains reports whether v already satisfies the limits (validator lint).
func (c CameraLimits) Contains(v View) bool {
	if v.Pitch < c.MinPitch || v.Pitch > c.MaxPitch {
		return false
	}
	if v.HFov != 0 && (v.HFov < c.MinHFov || v.HFov > c.MaxHFov) {
		return false
	}
	return true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ViewerConfig is everything a viewer adapter needs to construct one instance
// for one scene. The navigation controller assembles it fresh per swap; viewer
// implementations must not retain it across instances.
type ViewerConfig struct {
	SceneID     string         `json:"scene_id"`
	Image       string         `json:"image"`
	InitialView View           `json:"initial_view"`
	Limits      CameraLimits   `json:"limits"`
	AccentColor string         `json:"accent_color,omitempty"`
	Hotspots    []Hotspot      `json:"hotspots,omitempty"`
	Options     map[string]any `json:"options,omitempty"`
}
