package home360_test

import (
	"context"
	"fmt"
	"log"

	"github.com/devsanthoshmk/home360"
	"github.com/devsanthoshmk/home360/pkg/domain"
	"github.com/devsanthoshmk/home360/pkg/dsl"
)

// ExampleNew demonstrates a tour declared in code, with no YAML file.
// This suits embedded scenarios and tests; the default headless viewer
// settles instantly.
func ExampleNew() {
	scenes := []domain.Scene{
		{
			ID:    "hall",
			Title: "Entrance Hall",
			Image: "panos/hall.jpg",
			Hotspots: []domain.Hotspot{
				{Target: "kitchen", Yaw: 120, Label: "Kitchen"},
			},
		},
		{
			ID:    "kitchen",
			Title: "Kitchen",
			Image: "panos/kitchen.jpg",
			Hotspots: []domain.Hotspot{
				{Target: "hall", Yaw: -60, Label: "Back to the hall"},
			},
		},
	}

	tour, err := home360.New("", scenes, home360.WithExitDuration(0))
	if err != nil {
		log.Fatal(err)
	}
	defer tour.Close()

	res, err := tour.NavigateTo(context.Background(), "kitchen")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Outcome: %s\n", res.Outcome)
	fmt.Printf("Current: %s\n", tour.CurrentSceneID())
	// Output:
	// Outcome: completed
	// Current: kitchen
}

// ExampleOpen loads a tour file. The file's camera section and entry scene
// apply automatically.
func ExampleOpen() {
	tour, err := home360.Open("testdata/tour.yaml")
	if err != nil {
		log.Fatal(err)
	}
	defer tour.Close()

	fmt.Println(tour.Title())
	fmt.Println(tour.Registry().Len(), "scenes, entry:", tour.CurrentSceneID())
	// Output:
	// Riverside Loft
	// 3 scenes, entry: living-room
}

// ExampleNew_builder declares the same kind of tour through the fluent
// builder instead of struct literals.
func ExampleNew_builder() {
	b := dsl.New().Entry("hall")
	b.Scene("hall").
		Title("Entrance Hall").
		Image("panos/hall.jpg").
		ExitAt("kitchen", 120, 0, "Kitchen")
	b.Scene("kitchen").
		Title("Kitchen").
		Image("panos/kitchen.jpg").
		Exit("hall")

	tour, err := home360.New(b.EntryID(), b.Scenes(), home360.WithExitDuration(0))
	if err != nil {
		log.Fatal(err)
	}
	defer tour.Close()

	res, err := tour.NavigateTo(context.Background(), "kitchen")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%s -> %s: %s\n", res.From, res.To, res.Outcome)
	// Output:
	// hall -> kitchen: completed
}

// ExampleNew_lifecycleHooks wires observers into the transition protocol.
// Hooks run inline on the navigating goroutine, in protocol order.
func ExampleNew_lifecycleHooks() {
	scenes := []domain.Scene{
		{ID: "hall", Title: "Entrance Hall", Image: "panos/hall.jpg",
			Hotspots: []domain.Hotspot{{Target: "lounge"}}},
		{ID: "lounge", Title: "Lounge", Image: "panos/lounge.jpg"},
	}

	hooks := domain.LifecycleHooks{
		OnSceneEnter: func(ctx context.Context, e *domain.SceneEvent) {
			fmt.Printf("entered %s (%s)\n", e.SceneID, e.Title)
		},
		OnTransitionEnd: func(ctx context.Context, e *domain.TransitionEvent) {
			fmt.Printf("%s -> %s: %s\n", e.From, e.To, e.Outcome)
		},
	}

	tour, err := home360.New("", scenes,
		home360.WithLifecycleHooks(hooks),
		home360.WithExitDuration(0),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer tour.Close()

	if _, err := tour.NavigateTo(context.Background(), "lounge"); err != nil {
		log.Fatal(err)
	}
	// Output:
	// entered lounge (Lounge)
	// hall -> lounge: completed
}
