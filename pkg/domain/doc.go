// Package domain holds the leaf types of the tour model: scenes and their
// hotspot edges, camera poses and limits, per-session navigation state, the
// tagged transition result, and the lifecycle event vocabulary shared by every
// adapter. It has no behavior beyond small pure helpers and depends on nothing
// inside the module.
package domain
