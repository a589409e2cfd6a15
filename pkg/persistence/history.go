package persistence

import "github.com/devsanthoshmk/home360/pkg/domain"

type historyCapCodec struct {
	inner Codec
	limit int
}

// NewHistoryCapCodec caps the persisted history trail at limit entries,
// keeping the most recent ones. The live session keeps its full trail; only
// the stored copy is trimmed, so a long visit cannot grow a stored value
// without bound. A limit of zero or less disables the cap.
func NewHistoryCapCodec(limit int, inner Codec) Codec {
	if inner == nil {
		inner = JSON{}
	}
	return &historyCapCodec{inner: inner, limit: limit}
}

func (c *historyCapCodec) Encode(state domain.State) ([]byte, error) {
	if c.limit > 0 && len(state.History) > c.limit {
		state.History = append([]string(nil), state.History[len(state.History)-c.limit:]...)
	}
	return c.inner.Encode(state)
}

func (c *historyCapCodec) Decode(data []byte) (domain.State, error) {
	return c.inner.Decode(data)
}
