package pipeline

import (
	"fmt"

	goerrors "github.com/go-errors/errors"
)

// Stage names the step of Process that failed.
type Stage string

const (
	StagePace     Stage = "pace"
	StageOpen     Stage = "open"
	StageNavigate Stage = "navigate"
	StageSettle   Stage = "settle"
	StageExtract  Stage = "extract"
)

// ExtractionError is a per-item failure. It is logged and counted by the
// crawl loop and never stops the crawl.
type ExtractionError struct {
	URL   string
	Stage Stage
	Err   error
	Stack []byte
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Stage, e.URL, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

func (e *ExtractionError) StackTrace() []byte {
	return e.Stack
}

func newExtractionError(url string, stage Stage, err error) *ExtractionError {
	var stack []byte
	if stackErr, ok := err.(*goerrors.Error); ok {
		stack = stackErr.Stack()
	} else {
		stack = goerrors.Wrap(err, 2).Stack()
	}
	return &ExtractionError{URL: url, Stage: stage, Err: err, Stack: stack}
}
