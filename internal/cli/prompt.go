package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"jobtrack.local/internal/domain"
)

type inputLine struct {
	text string
	err  error
}

// readLines scans in on its own goroutine so prompts can give up when ctx is
// cancelled. It only reads; all output stays on the menu goroutine.
func readLines(in io.Reader, stop <-chan struct{}) <-chan inputLine {
	ch := make(chan inputLine)
	go func() {
		sc := bufio.NewScanner(in)
		for {
			var l inputLine
			if sc.Scan() {
				l.text = sc.Text()
			} else if l.err = sc.Err(); l.err == nil {
				l.err = io.EOF
			}
			select {
			case ch <- l:
			case <-stop:
				return
			}
			if l.err != nil {
				return
			}
		}
	}()
	return ch
}

// readLine prints prompt and returns the next trimmed line, io.EOF once input
// is exhausted, or ctx's error.
func (m *Menu) readLine(ctx context.Context, prompt string) (string, error) {
	fmt.Fprint(m.out, prompt)
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case l := <-m.lines:
		if l.err != nil {
			return "", l.err
		}
		return strings.TrimSpace(l.text), nil
	}
}

// promptUntil re-prompts while parse reports a validation error.
func promptUntil[T any](ctx context.Context, m *Menu, prompt string, parse func(string) (T, error)) (T, error) {
	for {
		line, err := m.readLine(ctx, prompt)
		if err != nil {
			var zero T
			return zero, err
		}
		v, err := parse(line)
		if err == nil {
			return v, nil
		}
		if !domain.IsValidation(err) {
			var zero T
			return zero, err
		}
		fmt.Fprintf(m.out, "%s. Please try again.\n", capitalize(err.Error()))
	}
}

func (m *Menu) promptText(ctx context.Context, prompt, field string) (string, error) {
	return promptUntil(ctx, m, prompt, func(s string) (string, error) { return domain.RequireText(field, s) })
}

func (m *Menu) promptDate(ctx context.Context, prompt string) (time.Time, error) {
	return promptUntil(ctx, m, prompt, func(s string) (time.Time, error) { return domain.ParseDate(s, m.now()) })
}

func (m *Menu) promptID(ctx context.Context, prompt string) (int64, error) {
	return promptUntil(ctx, m, prompt, domain.ParseID)
}

func (m *Menu) confirm(ctx context.Context, prompt string) (bool, error) {
	answer, err := m.readLine(ctx, prompt)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
