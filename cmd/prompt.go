package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// prompter asks for values the user left off the command line. When
// stdin is not a terminal it never reads and falls back to the default.
type prompter struct {
	in      *bufio.Reader
	out     io.Writer
	enabled bool
}

func newPrompter(in io.Reader, out io.Writer, enabled bool) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out, enabled: enabled}
}

// ask returns val when set; otherwise the trimmed answer to text, or def
// when the answer is empty or input is closed.
func (p *prompter) ask(val, text, def string) string {
	if val != "" {
		return val
	}
	if !p.enabled {
		return def
	}
	fmt.Fprint(p.out, text)
	line, _ := p.in.ReadString('\n')
	if line = strings.TrimSpace(line); line != "" {
		return line
	}
	return def
}
