// Package ports defines the driven-side interfaces of the navigation core:
// the viewer adapter contract (construct, destroy, one-shot load/error
// signal, HFov access), state persistence, and distributed locking. Adapters
// implement these; the core never imports an adapter.
package ports
