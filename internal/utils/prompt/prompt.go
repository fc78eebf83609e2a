package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter читает ответы из терминала. Секреты читаются без эха,
// если ввод - терминал; иначе (пайп, тесты) строкой.
type Prompter struct {
	in     *bufio.Reader
	fd     int
	isTerm bool
	out    io.Writer
}

func New(in *os.File, out io.Writer) *Prompter {
	fd := int(in.Fd())
	return &Prompter{
		in:     bufio.NewReader(in),
		fd:     fd,
		isTerm: term.IsTerminal(fd),
		out:    out,
	}
}

// NewReader - Prompter без терминала.
func NewReader(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), fd: -1, out: out}
}

// Line печатает label и читает строку. io.EOF возвращается, только если ничего не прочитано.
func (p *Prompter) Line(label string) (string, error) {
	fmt.Fprint(p.out, label)

	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Secret печатает label и читает строку без эха.
func (p *Prompter) Secret(label string) (string, error) {
	if !p.isTerm {
		return p.Line(label)
	}

	fmt.Fprint(p.out, label)
	b, err := term.ReadPassword(p.fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("read secret: %w", err)
	}
	return string(b), nil
}
