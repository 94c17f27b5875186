package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/widgetgen/widgetgen/internal/widget"
)

// DefaultAttempts is how often an invalid answer is re-asked before the
// Terminal gives up.
const DefaultAttempts = 3

var (
	marker  = color.New(color.FgGreen, color.Bold).SprintFunc()
	hint    = color.New(color.Faint).SprintFunc()
	problem = color.New(color.FgRed).SprintFunc()
)

// Terminal asks questions on a line-oriented terminal.
type Terminal struct {
	reader   *bufio.Reader
	out      io.Writer
	attempts int
	eof      bool
}

// NewTerminal returns a Terminal reading answers from in and writing
// questions to out.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{
		reader:   bufio.NewReader(in),
		out:      out,
		attempts: DefaultAttempts,
	}
}

// Prompt asks every applicable question in order.
func (t *Terminal) Prompt(ctx context.Context, questions []widget.Question) (*widget.Answers, error) {
	answers := &widget.Answers{}
	for _, q := range questions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !q.Applies(answers) {
			continue
		}
		value, err := t.ask(q)
		if err != nil {
			return nil, err
		}
		if value == nil {
			continue
		}
		if err := answers.Set(q.Key, value); err != nil {
			return nil, err
		}
	}
	return answers, nil
}

// ask re-asks q until it gets a valid answer or runs out of attempts. A nil
// value means the question was left unanswered.
func (t *Terminal) ask(q widget.Question) (any, error) {
	var lastErr error
	for i := 0; i < t.attempts; i++ {
		value, err := t.read(q)
		if err == nil {
			err = q.Check(value)
		}
		if err == nil {
			return value, nil
		}
		lastErr = err
		fmt.Fprintf(t.out, "%s %v\n", problem(">>"), err)
		if t.eof {
			break
		}
	}
	return nil, fmt.Errorf("no valid answer for %q: %w", q.Key, lastErr)
}

func (t *Terminal) read(q widget.Question) (any, error) {
	switch q.Kind {
	case widget.KindConfirm:
		return t.confirm(q)
	case widget.KindSelect:
		return t.selectOne(q)
	case widget.KindMultiSelect:
		return t.selectMany(q)
	default:
		return t.input(q)
	}
}

func (t *Terminal) input(q widget.Question) (any, error) {
	def, _ := q.Default.(string)
	if def != "" {
		fmt.Fprintf(t.out, "%s %s %s: ", marker("?"), q.Message, hint("("+def+")"))
	} else {
		fmt.Fprintf(t.out, "%s %s: ", marker("?"), q.Message)
	}
	line, err := t.readLine()
	if err != nil {
		return nil, err
	}
	if line == "" {
		return def, nil
	}
	return line, nil
}

func (t *Terminal) confirm(q widget.Question) (any, error) {
	def, _ := q.Default.(bool)
	choices := "y/N"
	if def {
		choices = "Y/n"
	}
	fmt.Fprintf(t.out, "%s %s %s ", marker("?"), q.Message, hint("("+choices+")"))
	line, err := t.readLine()
	if err != nil {
		return nil, err
	}
	if line == "" {
		return def, nil
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	}
	return nil, fmt.Errorf("please answer yes or no, got %q", line)
}

// selectOne presents a numbered list and returns the chosen value.
func (t *Terminal) selectOne(q widget.Question) (any, error) {
	def, _ := q.Default.(string)
	defIdx := t.menu(q, def)
	if defIdx > 0 {
		fmt.Fprintf(t.out, "Enter number [1-%d] %s: ", len(q.Choices), hint("("+strconv.Itoa(defIdx)+")"))
	} else {
		fmt.Fprintf(t.out, "Enter number [1-%d]: ", len(q.Choices))
	}

	line, err := t.readLine()
	if err != nil {
		return nil, err
	}
	if line == "" {
		if defIdx > 0 {
			return def, nil
		}
		return nil, fmt.Errorf("%s: a selection is required", q.Key)
	}
	num, err := strconv.Atoi(line)
	if err != nil || num < 1 || num > len(q.Choices) {
		return nil, fmt.Errorf("invalid selection %q: choose 1-%d", line, len(q.Choices))
	}
	return q.Choices[num-1].Value, nil
}

// selectMany presents a numbered list and accepts comma-separated numbers.
func (t *Terminal) selectMany(q widget.Question) (any, error) {
	t.menu(q, "")
	fmt.Fprintf(t.out, "Enter numbers separated by commas %s: ", hint("(blank for none)"))

	line, err := t.readLine()
	if err != nil {
		return nil, err
	}
	selected := []string{}
	if line == "" {
		if def, ok := q.Default.([]string); ok {
			return def, nil
		}
		return selected, nil
	}
	seen := map[int]bool{}
	for _, field := range strings.Split(line, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		num, err := strconv.Atoi(field)
		if err != nil || num < 1 || num > len(q.Choices) {
			return nil, fmt.Errorf("invalid selection %q: choose 1-%d", field, len(q.Choices))
		}
		if seen[num] {
			continue
		}
		seen[num] = true
		selected = append(selected, q.Choices[num-1].Value)
	}
	return selected, nil
}

// menu prints q and its choices, returning the 1-based index of def or 0.
func (t *Terminal) menu(q widget.Question, def string) int {
	fmt.Fprintf(t.out, "%s %s\n", marker("?"), q.Message)
	defIdx := 0
	for i, c := range q.Choices {
		label := c.Label
		if label == "" {
			label = c.Value
		}
		fmt.Fprintf(t.out, "  %d) %s\n", i+1, label)
		if c.Value == def {
			defIdx = i + 1
		}
	}
	return defIdx
}

// readLine returns the next trimmed line. Once input is exhausted every read
// returns an empty line, so the remaining questions take their defaults.
func (t *Terminal) readLine() (string, error) {
	if t.eof {
		return "", nil
	}
	line, err := t.reader.ReadString('\n')
	if errors.Is(err, io.EOF) {
		t.eof = true
		fmt.Fprintln(t.out)
	} else if err != nil {
		return "", fmt.Errorf("reading answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}
