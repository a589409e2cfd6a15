/*
Package dsl provides a fluent builder for declaring tours in Go code.

Tours are usually loaded from a YAML or JSON config, but embedding a small
tour directly in a program (tests, demos, generated walkthroughs) is often
more convenient than shipping a config file alongside it. The builder keeps
declaration order, so next/previous navigation and the position counter
behave exactly as they would with a config file listing the scenes in the
same order.

A scene is declared by Scene(id) and refined through chained calls; calling
Scene again with the same ID returns the same builder, so an exit can point
at a scene that is declared in full later.

	b := dsl.New().Entry("hall")
	b.Scene("hall").
		Title("Entrance Hall").
		Image("panos/hall.jpg").
		View(120, 0, 105).
		ExitAt("kitchen", 95, -5, "Kitchen")
	b.Scene("kitchen").
		Title("Kitchen").
		Image("panos/kitchen.jpg").
		Exit("hall")

	reg, err := b.Build()

Build validates the same way loading a config does: every exit must target a
declared scene, and the entry scene must exist. The built registry plugs
straight into navigation.New, or the declared scenes can feed the root
package instead:

	tour, err := home360.New(b.EntryID(), b.Scenes())
*/
package dsl
