package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spec-kit/telecom-tracker/internal/domain"
)

// prompter reads operator answers line by line. Every ask returns io.EOF once
// input is exhausted and the context error once ctx is done, so the menu can
// exit cleanly on end of input or interrupt.
type prompter struct {
	ctx   context.Context
	lines <-chan inputLine
	out   io.Writer
}

type inputLine struct {
	text string
	err  error
}

func newPrompter(ctx context.Context, in io.Reader, out io.Writer) *prompter {
	lines := make(chan inputLine)
	go readLines(ctx, bufio.NewReader(in), lines)
	return &prompter{ctx: ctx, lines: lines, out: out}
}

// readLines feeds lines from r until it fails or ctx is done. A blocked read
// cannot be interrupted, so it runs apart from the prompts.
func readLines(ctx context.Context, r *bufio.Reader, lines chan<- inputLine) {
	defer close(lines)
	for {
		text, err := r.ReadString('\n')
		if err == io.EOF && text != "" {
			err = nil
		}
		select {
		case lines <- inputLine{text: text, err: err}:
		case <-ctx.Done():
			return
		}
		if err != nil {
			return
		}
	}
}

func (p *prompter) ask(label string) (string, error) {
	if err := p.ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprintf(p.out, "%s: ", label)
	select {
	case <-p.ctx.Done():
		return "", p.ctx.Err()
	case line, ok := <-p.lines:
		if !ok {
			return "", io.EOF
		}
		if line.err != nil {
			return "", line.err
		}
		return strings.TrimSpace(line.text), nil
	}
}

func (p *prompter) askRequired(label string) (string, error) {
	for {
		answer, err := p.ask(label)
		if err != nil {
			return "", err
		}
		if answer != "" {
			return answer, nil
		}
		fmt.Fprintln(p.out, "A value is required.")
	}
}

func (p *prompter) askPhone(label string) (string, error) {
	for {
		answer, err := p.ask(label)
		if err != nil {
			return "", err
		}
		if domain.ValidPhone(answer) {
			return answer, nil
		}
		fmt.Fprintf(p.out, "Invalid phone number. Enter at least %d digits.\n", domain.MinPhoneDigits)
	}
}

func (p *prompter) askID(label string) (int64, error) {
	for {
		answer, err := p.ask(label)
		if err != nil {
			return 0, err
		}
		id, convErr := strconv.ParseInt(answer, 10, 64)
		if convErr == nil && id > 0 {
			return id, nil
		}
		fmt.Fprintln(p.out, "Enter a numeric id.")
	}
}

// choose lists options numbered from 1 and returns the index picked.
func (p *prompter) choose(label string, options []string) (int, error) {
	for i, option := range options {
		fmt.Fprintf(p.out, "  %d. %s\n", i+1, option)
	}
	for {
		answer, err := p.ask(label)
		if err != nil {
			return 0, err
		}
		n, convErr := strconv.Atoi(answer)
		if convErr == nil && n >= 1 && n <= len(options) {
			return n - 1, nil
		}
		fmt.Fprintf(p.out, "Pick a number between 1 and %d.\n", len(options))
	}
}

func chooseValue[T ~string](p *prompter, label string, values []T) (T, error) {
	idx, err := p.choose(label, valueLabels(values))
	if err != nil {
		var zero T
		return zero, err
	}
	return values[idx], nil
}

func valueLabels[T ~string](values []T) []string {
	labels := make([]string, len(values))
	for i, v := range values {
		labels[i] = string(v)
	}
	return labels
}
