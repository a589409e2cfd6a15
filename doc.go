/*
Package home360 is a scene-graph navigation engine for virtual home tours: a
catalog of 360-degree panorama scenes linked by hotspots, and a guarded state
machine that walks a visitor between them.

It separates the tour definition (Scenes) from the visitor's position (State)
and from rendering (Viewers), so the same navigation core drives a browser
panorama, a terminal walkthrough, or an AI agent.

# Concept

A tour is a closed graph: every hotspot must target a scene inside the tour,
checked at load time so a bad link is a startup failure rather than a dead
click during a visit. Navigation runs a fixed transition protocol per scene
change: announce, exit fade, destroy the old viewer, construct the new one,
wait for its load signal, commit. Exactly one viewer instance exists at a
time, and a second navigation arriving mid-transition is dropped with a
skipped result, never queued.

# Key Features

  - Guarded Transitions: re-entrant navigation cannot corrupt the session;
    every attempt ends in a tagged outcome (completed, failed, timed out,
    skipped).
  - Hexagonal Architecture: the core is decoupled from viewers (web,
    headless), stores (memory, file, Redis, SQLite) and frontends (HTTP,
    CLI, MCP).
  - Resumable Sessions: the visitor's position serializes to a small JSON
    state that survives restarts.
  - Lifecycle Hooks: scene and transition events feed logging, metrics or
    any host-side observer.

# Usage

Open a tour file and navigate:

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/devsanthoshmk/home360"
	)

	func main() {
		tour, err := home360.Open("tour.yaml")
		if err != nil {
			log.Fatal(err)
		}
		defer tour.Close()

		ctx := context.Background()
		res, err := tour.NavigateTo(ctx, "kitchen")
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(res.Outcome, tour.CurrentSceneID())
	}

Scenes can also be declared in code with New, for tours embedded in the host
binary; see the package examples.
*/
package home360
