package crawl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Console hands out operator input one line at a time. A single goroutine
// owns the reader, so the keyword prompt, the ready gate and the page
// stepper can all share stdin without losing buffered input.
type Console struct {
	out   io.Writer
	lines chan string
	err   error // set before lines is closed
}

func NewConsole(in io.Reader, out io.Writer) *Console {
	c := &Console{out: out, lines: make(chan string)}
	go c.read(in)
	return c
}

func (c *Console) read(in io.Reader) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		c.lines <- scanner.Text()
	}
	c.err = scanner.Err()
	if c.err == nil {
		c.err = io.EOF
	}
	close(c.lines)
}

// ReadLine returns the next line without its newline. Once input is closed
// it keeps returning io.EOF (or the read error).
func (c *Console) ReadLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-c.lines:
		if !ok {
			return "", c.err
		}
		return line, nil
	}
}

// Prompt prints prompt and reads the answer.
func (c *Console) Prompt(ctx context.Context, prompt string) (string, error) {
	if c.out != nil {
		fmt.Fprint(c.out, prompt)
	}
	return c.ReadLine(ctx)
}

// PromptKeywords asks for space separated keywords. A blank answer or
// closed input means no keywords.
func (c *Console) PromptKeywords(ctx context.Context) ([]string, error) {
	line, err := c.Prompt(ctx, "🔍 Keywords to search (space separated, Enter for none): ")
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return strings.Fields(line), nil
}
