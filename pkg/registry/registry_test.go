package registry

import (
	"errors"
	"testing"

	"github.com/devsanthoshmk/home360/pkg/domain"
)

func demoScenes() []domain.Scene {
	return []domain.Scene{
		{
			ID:    "living-room",
			Title: "Living Room",
			Image: "/panos/living-room.jpg",
			Hotspots: []domain.Hotspot{
				{Target: "open-living-kitchen", Yaw: 40, Pitch: -5, Label: "To the kitchen"},
				{Target: "lounge", Yaw: 150, Pitch: -10, Label: "To the lounge"},
			},
		},
		{
			ID:    "open-living-kitchen",
			Title: "Open Living Kitchen",
			Image: "/panos/kitchen.jpg",
			Hotspots: []domain.Hotspot{
				{Target: "living-room", Yaw: 220, Pitch: -5, Label: "Back to the living room"},
			},
		},
		{
			ID:    "lounge",
			Title: "Lounge",
			Image: "/panos/lounge.jpg",
			Hotspots: []domain.Hotspot{
				{Target: "living-room", Yaw: 300, Pitch: 0, Label: "Living room"},
				{Target: "music-room", Yaw: 80, Pitch: -8, Label: "Music room"},
			},
		},
		{
			ID:    "music-room",
			Title: "Music Room",
			Image: "/panos/music-room.jpg",
			Hotspots: []domain.Hotspot{
				{Target: "lounge", Yaw: 10, Pitch: 0, Label: "Back to the lounge"},
			},
		},
	}
}

func TestNewPreservesDeclarationOrder(t *testing.T) {
	reg, err := New("", demoScenes()...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	want := []string{"living-room", "open-living-kitchen", "lounge", "music-room"}
	got := reg.List()
	if len(got) != len(want) {
		t.Fatalf("List returned %d scenes, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("List[%d] = %q, want %q", i, got[i].ID, id)
		}
		if idx, ok := reg.IndexOf(id); !ok || idx != i {
			t.Errorf("IndexOf(%q) = %d, %v, want %d, true", id, idx, ok, i)
		}
		scene, err := reg.At(i)
		if err != nil {
			t.Fatalf("At(%d): %v", i, err)
		}
		if scene.ID != id {
			t.Errorf("At(%d) = %q, want %q", i, scene.ID, id)
		}
	}
	if reg.Len() != 4 {
		t.Errorf("Len = %d, want 4", reg.Len())
	}
}

func TestNewEntryScene(t *testing.T) {
	t.Run("defaults to first scene", func(t *testing.T) {
		reg, err := New("", demoScenes()...)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		if reg.EntryID() != "living-room" {
			t.Errorf("EntryID = %q, want living-room", reg.EntryID())
		}
		if reg.Entry().Title != "Living Room" {
			t.Errorf("Entry().Title = %q, want Living Room", reg.Entry().Title)
		}
	})

	t.Run("explicit entry", func(t *testing.T) {
		reg, err := New("lounge", demoScenes()...)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		if reg.EntryID() != "lounge" {
			t.Errorf("EntryID = %q, want lounge", reg.EntryID())
		}
	})

	t.Run("unknown entry fails", func(t *testing.T) {
		_, err := New("pool-house", demoScenes()...)
		if !errors.Is(err, domain.ErrSceneNotFound) {
			t.Errorf("New with unknown entry = %v, want ErrSceneNotFound", err)
		}
	})
}

func TestNewRejectsDanglingEdges(t *testing.T) {
	scenes := demoScenes()
	scenes[0].Hotspots = append(scenes[0].Hotspots, domain.Hotspot{Target: "pool-house"})
	scenes[3].Hotspots = append(scenes[3].Hotspots, domain.Hotspot{Target: "attic"})

	_, err := New("", scenes...)
	if err == nil {
		t.Fatal("New accepted a tour with dangling hotspot targets")
	}

	var ge *GraphError
	if !errors.As(err, &ge) {
		t.Fatalf("error is %T, want *GraphError", err)
	}
	if len(ge.Dangling) != 2 {
		t.Fatalf("GraphError lists %d edges, want 2: %v", len(ge.Dangling), ge.Dangling)
	}
	if ge.Dangling[0].From != "living-room" || ge.Dangling[0].Target != "pool-house" {
		t.Errorf("first edge = %v, want living-room -> pool-house", ge.Dangling[0])
	}
	if ge.Dangling[1].From != "music-room" || ge.Dangling[1].Target != "attic" {
		t.Errorf("second edge = %v, want music-room -> attic", ge.Dangling[1])
	}
}

func TestNewRejectsDuplicateIDs(t *testing.T) {
	scenes := demoScenes()
	scenes[2].ID = "living-room"
	scenes[2].Hotspots = nil

	if _, err := New("", scenes[:3]...); err == nil {
		t.Fatal("New accepted duplicate scene ids")
	}
}

func TestNewRejectsEmptyTour(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatal("New accepted an empty tour")
	}
}

func TestGet(t *testing.T) {
	reg, err := New("", demoScenes()...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	scene, err := reg.Get("music-room")
	if err != nil {
		t.Fatalf("Get(music-room): %v", err)
	}
	if scene.Title != "Music Room" {
		t.Errorf("Title = %q, want Music Room", scene.Title)
	}

	if _, err := reg.Get("pool-house"); !errors.Is(err, domain.ErrSceneNotFound) {
		t.Errorf("Get(pool-house) = %v, want ErrSceneNotFound", err)
	}
	if !reg.Has("lounge") || reg.Has("pool-house") {
		t.Error("Has gave wrong answer")
	}
}

func TestAtOutOfRange(t *testing.T) {
	reg, err := New("", demoScenes()...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := reg.At(-1); !errors.Is(err, domain.ErrSceneNotFound) {
		t.Errorf("At(-1) = %v, want ErrSceneNotFound", err)
	}
	if _, err := reg.At(4); !errors.Is(err, domain.ErrSceneNotFound) {
		t.Errorf("At(4) = %v, want ErrSceneNotFound", err)
	}
}

func TestListIsACopy(t *testing.T) {
	reg, err := New("", demoScenes()...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	list := reg.List()
	list[0] = domain.Scene{ID: "mutated"}
	if got, _ := reg.At(0); got.ID != "living-room" {
		t.Errorf("mutating List() result leaked into the registry: %q", got.ID)
	}
}
