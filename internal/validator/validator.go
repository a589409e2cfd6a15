// Package validator lints a tour definition beyond what registry construction
// enforces. Registry construction fails fast on the first structural problem;
// the validator walks the whole tour and reports everything it finds, so an
// author can fix a broken file in one pass.
package validator

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/devsanthoshmk/home360/internal/config"
	"github.com/devsanthoshmk/home360/pkg/domain"
)

// Severity ranks a finding. Errors mean the tour cannot be served as written;
// warnings flag things that work but probably not as the author intended.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one lint finding, attributed to a scene when one is involved.
type Issue struct {
	Severity Severity
	SceneID  string
	Message  string
}

func (i Issue) String() string {
	if i.SceneID == "" {
		return fmt.Sprintf("%s: %s", i.Severity, i.Message)
	}
	return fmt.Sprintf("%s: scene %q: %s", i.Severity, i.SceneID, i.Message)
}

// Report collects the findings of one Validate run.
type Report struct {
	Issues []Issue
}

func (r *Report) errorf(sceneID, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{Severity: SeverityError, SceneID: sceneID, Message: fmt.Sprintf(format, args...)})
}

func (r *Report) warnf(sceneID, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{Severity: SeverityWarning, SceneID: sceneID, Message: fmt.Sprintf(format, args...)})
}

// Errors returns the error-severity findings.
func (r *Report) Errors() []Issue {
	return r.filter(SeverityError)
}

// Warnings returns the warning-severity findings.
func (r *Report) Warnings() []Issue {
	return r.filter(SeverityWarning)
}

func (r *Report) filter(sev Severity) []Issue {
	var out []Issue
	for _, i := range r.Issues {
		if i.Severity == sev {
			out = append(out, i)
		}
	}
	return out
}

// OK reports whether the tour is servable (warnings allowed, errors not).
func (r *Report) OK() bool {
	return len(r.Errors()) == 0
}

// Err summarizes the error-severity findings as a single error, or nil when
// the tour is servable.
func (r *Report) Err() error {
	errs := r.Errors()
	if len(errs) == 0 {
		return nil
	}
	lines := make([]string, len(errs))
	for i, issue := range errs {
		lines[i] = issue.String()
	}
	return fmt.Errorf("found %d errors:\n- %s", len(errs), strings.Join(lines, "\n- "))
}

// Options tune a Validate run.
type Options struct {
	// CheckAssets probes local panorama files for readability and the 2:1
	// equirectangular aspect. Remote URLs are skipped.
	CheckAssets bool
	// BaseDir resolves relative panorama paths when CheckAssets is set.
	BaseDir string
}

// ValidateFile loads a tour file and validates it. Relative panorama paths
// resolve against the file's directory unless Options.BaseDir says otherwise.
func ValidateFile(path string, opts Options) (*Report, error) {
	tour, err := config.LoadTour(path)
	if err != nil {
		return nil, err
	}
	if opts.BaseDir == "" {
		opts.BaseDir = filepath.Dir(path)
	}
	return Validate(tour, opts), nil
}

// Validate lints the tour and returns every finding.
func Validate(tour *config.Tour, opts Options) *Report {
	r := &Report{}

	if len(tour.Scenes) == 0 {
		r.errorf("", "tour declares no scenes")
		return r
	}

	index := make(map[string]int, len(tour.Scenes))
	for i, s := range tour.Scenes {
		if s.ID == "" {
			r.errorf("", "scene #%d has an empty id", i+1)
			continue
		}
		if _, dup := index[s.ID]; dup {
			r.errorf(s.ID, "duplicate scene id")
			continue
		}
		index[s.ID] = i
	}

	entry := tour.Entry
	if entry == "" {
		entry = tour.Scenes[0].ID
	} else if _, ok := index[entry]; !ok {
		r.errorf("", "entry scene %q is not declared", entry)
	}

	limits := tour.Limits()
	for _, s := range tour.Scenes {
		lintScene(r, s, index, limits)
	}

	reachable := crawl(tour.Scenes, index, entry)
	for _, s := range tour.Scenes {
		if s.ID != "" && !reachable[s.ID] {
			r.warnf(s.ID, "not reachable from entry scene %q through any hotspot", entry)
		}
	}

	if opts.CheckAssets {
		for _, s := range tour.Scenes {
			probeAsset(r, s, opts.BaseDir)
		}
	}

	return r
}

func lintScene(r *Report, s domain.Scene, index map[string]int, limits domain.CameraLimits) {
	if s.Image == "" {
		r.errorf(s.ID, "has no panorama image")
	}

	if !limits.Contains(s.InitialView) {
		r.warnf(s.ID, "initial view (pitch %g, hfov %g) is outside the camera limits and will be clamped",
			s.InitialView.Pitch, s.InitialView.HFov)
	}

	if len(s.Hotspots) == 0 {
		r.warnf(s.ID, "has no hotspots; visitors can only leave it through sequential navigation")
	}
	for i, h := range s.Hotspots {
		switch {
		case h.Target == "":
			r.errorf(s.ID, "hotspot #%d has an empty target", i+1)
		case h.Target == s.ID:
			r.warnf(s.ID, "hotspot #%d targets its own scene; activating it is always a no-op", i+1)
		default:
			if _, ok := index[h.Target]; !ok {
				r.errorf(s.ID, "hotspot #%d targets unknown scene %q", i+1, h.Target)
			}
		}
	}

	if _, unknown, err := config.DecodeViewerOverrides(s.ViewerOptions); err != nil {
		r.warnf(s.ID, "viewer options do not decode: %v", err)
	} else if len(unknown) > 0 {
		r.warnf(s.ID, "viewer options carry unknown keys: %s", strings.Join(unknown, ", "))
	}
}

// crawl walks the hotspot graph breadth-first from the entry scene and
// returns the set of scene IDs it can reach. Targets that do not resolve are
// skipped here; lintScene already reported them.
func crawl(scenes []domain.Scene, index map[string]int, entry string) map[string]bool {
	visited := make(map[string]bool, len(scenes))
	if _, ok := index[entry]; !ok {
		return visited
	}

	queue := []string{entry}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if visited[id] {
			continue
		}
		visited[id] = true

		for _, h := range scenes[index[id]].Hotspots {
			if _, ok := index[h.Target]; ok && !visited[h.Target] {
				queue = append(queue, h.Target)
			}
		}
	}
	return visited
}

func probeAsset(r *Report, s domain.Scene, baseDir string) {
	if s.Image == "" || isRemote(s.Image) {
		return
	}

	path := s.Image
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}

	f, err := os.Open(path)
	if err != nil {
		r.errorf(s.ID, "panorama not readable: %v", err)
		return
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		r.errorf(s.ID, "panorama %s does not decode: %v", filepath.Base(path), err)
		return
	}
	if cfg.Width != cfg.Height*2 {
		r.warnf(s.ID, "panorama is %dx%d %s; equirectangular projection expects 2:1",
			cfg.Width, cfg.Height, format)
	}
}

func isRemote(image string) bool {
	return strings.HasPrefix(image, "http://") ||
		strings.HasPrefix(image, "https://") ||
		strings.HasPrefix(image, "//")
}
