package headless

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/devsanthoshmk/home360/pkg/domain"
	"github.com/devsanthoshmk/home360/pkg/ports"
)

func testConfig(sceneID string) domain.ViewerConfig {
	return domain.ViewerConfig{
		SceneID:     sceneID,
		Image:       "/panos/" + sceneID + ".jpg",
		InitialView: domain.View{Yaw: 10, Pitch: -5, HFov: 100},
		Limits:      domain.DefaultCameraLimits(),
	}
}

func TestViewerLoadsImmediately(t *testing.T) {
	f := New(0)
	v, err := f.New(context.Background(), testConfig("living-room"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	select {
	case ev := <-v.Events():
		if ev.Kind != ports.ViewerLoaded {
			t.Fatalf("event = %+v, want loaded", ev)
		}
	default:
		t.Fatal("zero-latency viewer did not settle immediately")
	}

	if got := f.Constructed(); len(got) != 1 || got[0] != "living-room" {
		t.Errorf("Constructed = %v", got)
	}
	if f.Live() != 1 {
		t.Errorf("Live = %d, want 1", f.Live())
	}
}

func TestViewerLoadsAfterLatency(t *testing.T) {
	f := New(10 * time.Millisecond)
	v, err := f.New(context.Background(), testConfig("lounge"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	select {
	case ev := <-v.Events():
		if ev.Kind != ports.ViewerLoaded {
			t.Fatalf("event = %+v, want loaded", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("viewer never settled")
	}
}

func TestScriptedFailure(t *testing.T) {
	f := New(0)
	boom := errors.New("panorama 404")
	f.FailScene("lounge", boom)

	v, err := f.New(context.Background(), testConfig("lounge"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ev := <-v.Events()
	if ev.Kind != ports.ViewerError || !errors.Is(ev.Err, boom) {
		t.Fatalf("event = %+v, want error with cause", ev)
	}
}

func TestScriptedHangNeverSettles(t *testing.T) {
	f := New(0)
	f.HangScene("lounge")

	v, err := f.New(context.Background(), testConfig("lounge"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	select {
	case ev := <-v.Events():
		t.Fatalf("hanging viewer settled: %+v", ev)
	case <-time.After(30 * time.Millisecond):
	}
}

func TestScriptedRejection(t *testing.T) {
	f := New(0)
	boom := errors.New("no gl context")
	f.RejectScene("lounge", boom)

	if _, err := f.New(context.Background(), testConfig("lounge")); !errors.Is(err, boom) {
		t.Fatalf("New = %v, want rejection", err)
	}
	if f.Live() != 0 {
		t.Errorf("Live = %d after rejected construction", f.Live())
	}
}

func TestDestroyIsIdempotent(t *testing.T) {
	f := New(0)
	v, err := f.New(context.Background(), testConfig("living-room"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := v.Destroy(); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if err := v.Destroy(); err != nil {
		t.Fatalf("second Destroy: %v", err)
	}
	if f.Live() != 0 {
		t.Errorf("Live = %d, want 0", f.Live())
	}
}

func TestDestroyStopsPendingEvent(t *testing.T) {
	f := New(20 * time.Millisecond)
	v, err := f.New(context.Background(), testConfig("living-room"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := v.Destroy(); err != nil {
		t.Fatalf("Destroy: %v", err)
	}

	select {
	case ev := <-v.Events():
		t.Fatalf("destroyed viewer emitted %+v", ev)
	case <-time.After(60 * time.Millisecond):
	}
}

func TestSetHFovClamps(t *testing.T) {
	f := New(0)
	v, err := f.New(context.Background(), testConfig("living-room"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if got := v.HFov(); got != 100 {
		t.Errorf("initial HFov = %v, want 100", got)
	}
	v.SetHFov(200)
	if got := v.HFov(); got != domain.DefaultMaxHFov {
		t.Errorf("HFov after over-zoom = %v, want %v", got, domain.DefaultMaxHFov)
	}
	v.SetHFov(10)
	if got := v.HFov(); got != domain.DefaultMinHFov {
		t.Errorf("HFov after under-zoom = %v, want %v", got, domain.DefaultMinHFov)
	}
}

func TestMaxLiveTracksCoexistence(t *testing.T) {
	f := New(0)
	a, _ := f.New(context.Background(), testConfig("living-room"))
	b, _ := f.New(context.Background(), testConfig("lounge"))
	if f.MaxLive() != 2 {
		t.Errorf("MaxLive = %d, want 2", f.MaxLive())
	}
	_ = a.Destroy()
	_ = b.Destroy()
	if f.Live() != 0 {
		t.Errorf("Live = %d, want 0", f.Live())
	}
}
