package domain

// State is the navigation state of one tour session: which scene is rendered
// and whether a transition is currently in flight. It is owned and mutated
// exclusively by the navigation controller; reflectors only read it after a
// change notification.
type State struct {
	// CurrentSceneID is the scene presently rendered. Empty only before the
	// first load.
	CurrentSceneID string `json:"current_scene_id"`

	// Transitioning is true between "begin transition" and "loaded or
	// failed". It is never persisted as true: a transition does not survive
	// a restart.
	Transitioning bool `json:"-"`

	// History is the trail of committed scene ids, oldest first, starting
	// with the entry scene.
	History []string `json:"history,omitempty"`

	// Visits counts completed transitions (History grows in lockstep).
	Visits int `json:"visits"`
}

// NewState creates an idle state positioned at the entry scene.
func NewState(entrySceneID string) *State {
	return &State{
		CurrentSceneID: entrySceneID,
		History:        []string{entrySceneID},
	}
}

// Clone returns an independent copy so stores and reflectors can hold a
// snapshot without aliasing the controller-owned instance.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	dup := *s
	dup.History = append([]string(nil), s.History...)
	return &dup
}
