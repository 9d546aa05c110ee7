package spreadsheet

// ChangeKind says which part of a cell, or of the spreadsheet, changed
type ChangeKind uint8

const (
	ChangeValue ChangeKind = iota
	ChangeColor
	ChangeHistory // undo/redo stacks changed, Address is unset
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeValue:
		return "value"
	case ChangeColor:
		return "color"
	case ChangeHistory:
		return "history"
	default:
		return "unknown"
	}
}

// CellChange is the payload delivered to change sinks
type CellChange struct {
	Kind    ChangeKind
	Address CellAddress
	Value   string
	Color   uint32
}

// ChangeSink receives change notifications. sinks are called
// synchronously on the goroutine that made the edit, in subscription
// order, and must not edit the spreadsheet from inside the callback.
type ChangeSink interface {
	CellChanged(change CellChange)
}

// ChangeSinkFunc adapts a function to ChangeSink
type ChangeSinkFunc func(change CellChange)

func (f ChangeSinkFunc) CellChanged(change CellChange) {
	f(change)
}

type subscription struct {
	id   uint64
	sink ChangeSink
}

// Subscribe registers sink and returns a function that removes it
func (s *Spreadsheet) Subscribe(sink ChangeSink) (cancel func()) {
	s.nextSubscription++
	id := s.nextSubscription
	s.subscriptions = append(s.subscriptions, subscription{id: id, sink: sink})

	return func() {
		for i, sub := range s.subscriptions {
			if sub.id == id {
				s.subscriptions = append(s.subscriptions[:i:i], s.subscriptions[i+1:]...)
				return
			}
		}
	}
}

func (s *Spreadsheet) notify(change CellChange) {
	for _, sub := range s.subscriptions {
		sub.sink.CellChanged(change)
	}
}
