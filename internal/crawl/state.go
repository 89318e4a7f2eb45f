package crawl

import "fmt"

type State int

const (
	Discovering State = iota
	Extracting
	Paginating
	Done
)

func (s State) String() string {
	switch s {
	case Discovering:
		return "discovering"
	case Extracting:
		return "extracting"
	case Paginating:
		return "paginating"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Status is a point-in-time snapshot pushed to the Observer after every
// transition.
type Status struct {
	State         State
	Page          int // 1-based listing page currently being worked
	Records       int
	Failures      int
	PersistErrors int
	// LastPersistError is empty when the most recent persist succeeded.
	LastPersistError string
}

// Observer receives status snapshots. Implementations must not block.
type Observer interface {
	Observe(Status)
}

type Summary struct {
	Pages         int
	Records       int
	Failures      int
	PersistErrors int
	State         State
	Interrupted   bool
}

func (s Summary) String() string {
	msg := fmt.Sprintf("%d pages, %d records, %d failed items, %d persist errors",
		s.Pages, s.Records, s.Failures, s.PersistErrors)
	if s.Interrupted {
		msg += " (interrupted)"
	}
	return msg
}
