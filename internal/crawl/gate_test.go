package crawl

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStdinGate(t *testing.T) {
	t.Run("enter opens the gate", func(t *testing.T) {
		var out bytes.Buffer
		g := StdinGate{Console: NewConsole(strings.NewReader("\n"), &out)}

		require.NoError(t, g.Wait(context.Background()))
		assert.Contains(t, out.String(), "press Enter")
	})

	t.Run("closed stdin does not confirm", func(t *testing.T) {
		g := StdinGate{Console: NewConsole(strings.NewReader(""), nil)}
		assert.ErrorIs(t, g.Wait(context.Background()), ErrNoOperator)
	})

	t.Run("cancellation while waiting", func(t *testing.T) {
		r, w := io.Pipe()
		defer w.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		err := StdinGate{Console: NewConsole(r, nil)}.Wait(ctx)

		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

type gateFunc func(ctx context.Context) error

func (f gateFunc) Wait(ctx context.Context) error { return f(ctx) }

func blockingGate(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestAnyGate(t *testing.T) {
	t.Run("first open gate wins", func(t *testing.T) {
		g := AnyGate{gateFunc(blockingGate), Preconfirmed{}}
		assert.NoError(t, g.Wait(context.Background()))
	})

	t.Run("closed stdin keeps waiting for the other gate", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
		defer cancel()
		g := AnyGate{StdinGate{Console: NewConsole(strings.NewReader(""), nil)}, gateFunc(blockingGate)}

		err := g.Wait(ctx)

		assert.ErrorIs(t, err, ErrNoOperator)
		assert.ErrorIs(t, ctx.Err(), context.DeadlineExceeded, "must not open before the deadline")
	})

	t.Run("closed stdin then remote ready", func(t *testing.T) {
		remote := make(chan struct{})
		g := AnyGate{
			StdinGate{Console: NewConsole(strings.NewReader(""), nil)},
			gateFunc(func(ctx context.Context) error {
				select {
				case <-remote:
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			}),
		}
		time.AfterFunc(10*time.Millisecond, func() { close(remote) })

		assert.NoError(t, g.Wait(context.Background()))
	})

	t.Run("all gates fail", func(t *testing.T) {
		boom := errors.New("listener closed")
		g := AnyGate{gateFunc(func(context.Context) error { return boom })}
		assert.ErrorIs(t, g.Wait(context.Background()), boom)
	})

	t.Run("empty gate follows ctx", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, AnyGate{}.Wait(ctx), context.Canceled)
	})
}

func TestConsole_SharedBetweenReaders(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(strings.NewReader("golang 后端\n\nn\nq"), &out)
	ctx := context.Background()

	kws, err := c.PromptKeywords(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"golang", "后端"}, kws)

	require.NoError(t, StdinGate{Console: c}.Wait(ctx))

	stepper := ConsoleStepper{Console: c}
	step, err := stepper.Next(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, StepNext, step)
	step, err = stepper.Next(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, StepQuit, step, "last line without newline is still read")

	step, err = stepper.Next(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, StepQuit, step, "closed input quits")
	assert.Contains(t, out.String(), "Page 2")

	kws, err = c.PromptKeywords(ctx)
	require.NoError(t, err)
	assert.Empty(t, kws)
}

func TestParseStep(t *testing.T) {
	tests := []struct {
		answer string
		want   Step
	}{
		{"", StepCrawl},
		{"  ", StepCrawl},
		{"n", StepNext},
		{" N ", StepNext},
		{"q", StepQuit},
		{"Q", StepQuit},
		{"next", StepCrawl},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseStep(tt.answer), "answer %q", tt.answer)
	}
	assert.Equal(t, "next", StepNext.String())
}
