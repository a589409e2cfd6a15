package config

import (
	"fmt"
	"sort"

	"github.com/mitchellh/mapstructure"
)

// ViewerOverrides are the per-scene viewer options home360 itself
// understands. Key names follow the browser viewer's conventions, which is
// why they are camelCase in the YAML. The raw map still travels to the web
// viewer untouched; this typed view exists for validation and for the
// terminal walkthrough.
type ViewerOverrides struct {
	AutoRotate      float64 `mapstructure:"autoRotate"`      // deg/s, negative spins left
	AutoRotateDelay float64 `mapstructure:"autoRotateDelay"` // ms before autorotate resumes
	Compass         bool    `mapstructure:"compass"`
	Preview         string  `mapstructure:"preview"` // low-res placeholder image
}

// DecodeViewerOverrides decodes a scene's loose viewer map into the typed
// overrides. Unknown keys are returned rather than rejected; `home360
// validate` reports them as lint findings.
func DecodeViewerOverrides(raw map[string]any) (ViewerOverrides, []string, error) {
	var out ViewerOverrides
	if len(raw) == 0 {
		return out, nil, nil
	}

	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:   &out,
		Metadata: &md,
	})
	if err != nil {
		return out, nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return out, nil, fmt.Errorf("decode viewer options: %w", err)
	}

	sort.Strings(md.Unused)
	return out, md.Unused, nil
}
