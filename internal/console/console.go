// Package console reads the player's decisions from a line-based terminal.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var (
	// ErrQuit is returned by every prompt when the player types a quit sentinel
	// or the input ends. Callers unwind and return it untouched.
	ErrQuit = errors.New("player quit")
	// ErrInvalidInput is returned by ReadInt for non-numeric or out-of-range input.
	ErrInvalidInput = errors.New("invalid input")
)

// Prompter asks questions on out and reads answers from in.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

// New creates a prompter over the given streams.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out}
}

// Out exposes the output stream for renderers.
func (p *Prompter) Out() io.Writer {
	return p.out
}

func (p *Prompter) Printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

func (p *Prompter) Println(args ...any) {
	fmt.Fprintln(p.out, args...)
}

// IsQuit reports whether s is one of the quit sentinels.
func IsQuit(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "q", "quit", "exit":
		return true
	}
	return false
}

// Text reads one raw line. Quit sentinels are not interpreted.
func (p *Prompter) Text(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", ErrQuit
	}
	return strings.TrimSpace(p.in.Text()), nil
}

// Command reads one line and maps quit sentinels to ErrQuit.
func (p *Prompter) Command(prompt string) (string, error) {
	line, err := p.Text(prompt)
	if err != nil {
		return "", err
	}
	if IsQuit(line) {
		return "", ErrQuit
	}
	return line, nil
}

// AskYes repeats the question until it gets y/yes or n/no.
func (p *Prompter) AskYes(question string) (bool, error) {
	for {
		answer, err := p.Command(question)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		p.Println("Enter y/yes or n/no (or q to quit)")
	}
}

// ReadInt reads a single number in [low, high]. Bad input is reported and
// returned as ErrInvalidInput so the caller decides whether to ask again.
func (p *Prompter) ReadInt(prompt string, low, high int) (int, error) {
	s, err := p.Command(prompt)
	if err != nil {
		return 0, err
	}
	if !isDigits(s) {
		p.Println("❌ Invalid input. Please enter a valid number.")
		return 0, ErrInvalidInput
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < low || v > high {
		p.Printf("❌ Invalid input. Please enter a valid number from %d to %d\n", low, high)
		return 0, ErrInvalidInput
	}
	return v, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
