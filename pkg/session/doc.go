/*
Package session implements visitor session management and persistence
orchestration.

It provides high-level abstractions for handling concurrent access to
navigation states across multiple replicas, combining in-process reference
counted locks with optional distributed locking and a pluggable state store.
*/
package session
