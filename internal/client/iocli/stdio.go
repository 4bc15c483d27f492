package iocli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Stdio реализует IO поверх произвольных потоков.
// Пароль читается без эха, только если вход это терминал
type Stdio struct {
	in   *bufio.Reader
	out  io.Writer
	file *os.File // nil, если вход не файл
}

var _ IO = (*Stdio)(nil)

// NewStdio возвращает IO для os.Stdin и os.Stdout
func NewStdio() IO {
	return &Stdio{
		in:   bufio.NewReader(os.Stdin),
		out:  os.Stdout,
		file: os.Stdin,
	}
}

// New возвращает IO для заданных потоков
func New(in io.Reader, out io.Writer) IO {
	s := &Stdio{
		in:  bufio.NewReader(in),
		out: out,
	}
	if f, ok := in.(*os.File); ok {
		s.file = f
	}
	return s
}

func (s *Stdio) Write(p []byte) (int, error) {
	return s.out.Write(p)
}

func (s *Stdio) Println(a ...any) {
	_, _ = fmt.Fprintln(s.out, a...)
}

func (s *Stdio) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(s.out, format, a...)
}

func (s *Stdio) ReadInput(prompt string) (string, error) {
	s.Printf("%s", prompt)
	return s.readLine()
}

func (s *Stdio) ReadPassword(prompt string) (string, error) {
	s.Printf("%s", prompt)

	if s.isTerminal() {
		pwBytes, err := term.ReadPassword(int(s.file.Fd()))
		s.Println("")
		if err != nil {
			return "", err
		}
		return string(pwBytes), nil
	}

	// Ввод из pipe: пароль читается как обычная строка
	line, err := s.readLine()
	if err != nil {
		return "", err
	}
	return line, nil
}

func (s *Stdio) isTerminal() bool {
	return s.file != nil && term.IsTerminal(int(s.file.Fd()))
}

func (s *Stdio) readLine() (string, error) {
	input, err := s.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && input != "" {
			return strings.TrimRight(input, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(input, "\r\n"), nil
}
