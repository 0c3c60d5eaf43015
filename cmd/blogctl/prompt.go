package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// prompter reads answers line by line from the shell input.
type prompter struct {
	sc  *bufio.Scanner
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{sc: bufio.NewScanner(in), out: out}
}

// line reads one trimmed line. ok is false at end of input.
func (p *prompter) line() (string, bool) {
	if !p.sc.Scan() {
		return "", false
	}
	return strings.TrimSpace(p.sc.Text()), true
}

func (p *prompter) ask(label string) (string, bool) {
	fmt.Fprintf(p.out, "%s: ", label)
	return p.line()
}

// askDefault shows current and keeps it when the answer is empty.
func (p *prompter) askDefault(label, current string) (string, bool) {
	fmt.Fprintf(p.out, "%s [%s]: ", label, current)
	v, ok := p.line()
	if v == "" {
		v = current
	}
	return v, ok
}

func (p *prompter) askID(label string) (int64, bool) {
	v, ok := p.ask(label)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id < 1 {
		fmt.Fprintln(p.out, "Please enter a positive number")
		return 0, false
	}
	return id, true
}

// askText reads paragraphs until a line holding a single ".".
func (p *prompter) askText(label string) (string, bool) {
	fmt.Fprintf(p.out, "%s (end with a line containing only \".\"):\n", label)
	var lines []string
	for p.sc.Scan() {
		l := p.sc.Text()
		if strings.TrimSpace(l) == "." {
			return strings.Join(lines, "\n"), true
		}
		lines = append(lines, l)
	}
	return strings.Join(lines, "\n"), false
}

func (p *prompter) confirm(label string) bool {
	v, _ := p.ask(label + " [y/N]")
	v = strings.ToLower(v)
	return v == "y" || v == "yes"
}
