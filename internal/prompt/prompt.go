// Package prompt reads operator answers: free text and yes/no confirmations.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// ErrNoAnswer is returned when input ends before an answer is read.
var ErrNoAnswer = errors.New("no answer on input")

// Prompter is the operator-input capability.
type Prompter interface {
	Input(question string) (string, error)
	Confirm(question string) (bool, error)
}

// New picks the huh-based prompter when stdin is a terminal, the line reader otherwise.
func New() Prompter {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return Terminal{}
	}
	return NewLine(os.Stdin, os.Stdout)
}

// Terminal renders prompts as huh fields.
type Terminal struct{}

func (Terminal) Input(question string) (string, error) {
	var answer string
	err := huh.NewInput().Title(question).Value(&answer).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return "", ErrNoAnswer
	}
	return strings.TrimSpace(answer), err
}

func (Terminal) Confirm(question string) (bool, error) {
	var yes bool
	err := huh.NewConfirm().Title(question).Affirmative("Yes").Negative("No").Value(&yes).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return yes, err
}

// Line reads answers one line at a time, for piped or redirected stdin.
type Line struct {
	r *bufio.Reader
	w io.Writer
}

// NewLine returns a Line reading from r and echoing questions to w.
func NewLine(r io.Reader, w io.Writer) *Line {
	return &Line{r: bufio.NewReader(r), w: w}
}

func (l *Line) Input(question string) (string, error) {
	fmt.Fprintf(l.w, "%s ", question)
	s, err := l.r.ReadString('\n')
	if err != nil && (err != io.EOF || s == "") {
		if err == io.EOF {
			return "", ErrNoAnswer
		}
		return "", err
	}
	return strings.TrimSpace(s), nil
}

// Confirm accepts y/yes (any case); anything else, including end of input, is "no".
func (l *Line) Confirm(question string) (bool, error) {
	s, err := l.Input(question + " (y/n)")
	if errors.Is(err, ErrNoAnswer) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return IsYes(s), nil
}

// IsYes reports whether s is an affirmative answer.
func IsYes(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return true
	}
	return false
}

// Scripted replays canned answers in order. Confirm consumes an answer and applies IsYes.
type Scripted struct {
	Answers []string
	Asked   []string
}

func (s *Scripted) next(question string) (string, error) {
	s.Asked = append(s.Asked, question)
	if len(s.Answers) == 0 {
		return "", fmt.Errorf("%w: %q", ErrNoAnswer, question)
	}
	a := s.Answers[0]
	s.Answers = s.Answers[1:]
	return a, nil
}

func (s *Scripted) Input(question string) (string, error) { return s.next(question) }

func (s *Scripted) Confirm(question string) (bool, error) {
	a, err := s.next(question)
	if err != nil {
		return false, err
	}
	return IsYes(a), nil
}
