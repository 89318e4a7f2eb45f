package crawl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Step is the operator's choice before a listing page in manual mode.
type Step int

const (
	StepCrawl Step = iota // extract the page currently shown
	StepNext              // turn the page without extracting
	StepQuit
)

func (s Step) String() string {
	switch s {
	case StepCrawl:
		return "crawl"
	case StepNext:
		return "next"
	case StepQuit:
		return "quit"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// Stepper decides, page by page, what the loop does next. With a Stepper
// set the loop never paginates on its own and ignores MaxPages.
type Stepper interface {
	Next(ctx context.Context, page int) (Step, error)
}

// ConsoleStepper asks on the console: Enter crawls the current page, "n"
// turns the page, "q" stops. Closed input stops as well.
type ConsoleStepper struct {
	Console *Console
}

func (s ConsoleStepper) Next(ctx context.Context, page int) (Step, error) {
	prompt := fmt.Sprintf("⏯️ Page %d: Enter to crawl it, 'n' for the next page, 'q' to finish: ", page)
	line, err := s.Console.Prompt(ctx, prompt)
	if errors.Is(err, io.EOF) {
		return StepQuit, nil
	}
	if err != nil {
		return StepQuit, err
	}
	return ParseStep(line), nil
}

// ParseStep maps an answer to a Step. Anything unrecognised crawls.
func ParseStep(answer string) Step {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "n":
		return StepNext
	case "q":
		return StepQuit
	}
	return StepCrawl
}
