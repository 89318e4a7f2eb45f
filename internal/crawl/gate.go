package crawl

import (
	"context"
	"errors"
	"io"
)

// ReadyGate blocks the crawl until the operator has finished any manual
// login or verification in the browser.
type ReadyGate interface {
	Wait(ctx context.Context) error
}

// Preconfirmed is a gate that is already open.
type Preconfirmed struct{}

func (Preconfirmed) Wait(ctx context.Context) error {
	return ctx.Err()
}

// ErrNoOperator means the console closed before the operator confirmed.
var ErrNoOperator = errors.New("console closed before confirmation")

// StdinGate waits for the operator to press Enter on the console.
type StdinGate struct {
	Console *Console
	Prompt  string
}

const DefaultPrompt = "👉 Log in or pass any verification in the browser, then press Enter to start crawling...\n"

// Wait returns ErrNoOperator when input closes first, so inside an AnyGate
// the other gates keep waiting.
func (g StdinGate) Wait(ctx context.Context) error {
	prompt := g.Prompt
	if prompt == "" {
		prompt = DefaultPrompt
	}
	_, err := g.Console.Prompt(ctx, prompt)
	if errors.Is(err, io.EOF) {
		return ErrNoOperator
	}
	return err
}

// AnyGate opens as soon as one of its gates opens and cancels the rest.
type AnyGate []ReadyGate

func (gs AnyGate) Wait(ctx context.Context) error {
	if len(gs) == 0 {
		return ctx.Err()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan error, len(gs))
	for _, g := range gs {
		go func(g ReadyGate) { results <- g.Wait(ctx) }(g)
	}

	var firstErr error
	for range gs {
		err := <-results
		if err == nil {
			return nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
