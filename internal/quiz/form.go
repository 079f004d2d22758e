package quiz

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrNameRequired    = errors.New("name is required")
	ErrInvalidQuestion = errors.New("invalid question")
	ErrInvalidOption   = errors.New("invalid option")
)

type AnswerState int

const (
	Unanswered AnswerState = iota
	Answered
)

func (s AnswerState) String() string {
	if s == Answered {
		return "answered"
	}
	return "unanswered"
}

const fieldPrefix = "answer"

// FieldName is the radio-group name for the question at index.
func FieldName(index int) string {
	return fieldPrefix + strconv.Itoa(index)
}

// IncompleteError lists the questions still unanswered at submit time.
type IncompleteError struct {
	Missing []int
}

func (e *IncompleteError) Error() string {
	if len(e.Missing) == 1 {
		return fmt.Sprintf("question %d is unanswered", e.Missing[0]+1)
	}
	return fmt.Sprintf("%d questions are unanswered", len(e.Missing))
}

// First is the question to focus.
func (e *IncompleteError) First() int {
	if len(e.Missing) == 0 {
		return -1
	}
	return e.Missing[0]
}

// Form is one round's questions plus the option picked for each. Methods that
// change a selection return a new Form so earlier values stay valid.
type Form struct {
	questions []Question
	choices   []int
}

func NewForm(questions []Question) Form {
	choices := make([]int, len(questions))
	for idx := range choices {
		choices[idx] = -1
	}
	return Form{questions: questions, choices: choices}
}

func (f Form) Len() int {
	return len(f.questions)
}

func (f Form) Questions() []Question {
	return f.questions
}

func (f Form) Question(index int) (Question, bool) {
	if index < 0 || index >= len(f.questions) {
		return Question{}, false
	}
	return f.questions[index], true
}

func (f Form) State(index int) AnswerState {
	if _, ok := f.Choice(index); ok {
		return Answered
	}
	return Unanswered
}

func (f Form) Choice(index int) (int, bool) {
	if index < 0 || index >= len(f.choices) || f.choices[index] < 0 {
		return -1, false
	}
	return f.choices[index], true
}

// WithChoice marks question as answered with option.
func (f Form) WithChoice(question, option int) (Form, error) {
	q, ok := f.Question(question)
	if !ok {
		return f, ErrInvalidQuestion
	}
	if option < 0 || option >= len(q.Options) {
		return f, ErrInvalidOption
	}

	choices := make([]int, len(f.choices))
	copy(choices, f.choices)
	choices[question] = option
	return Form{questions: f.questions, choices: choices}, nil
}

// WithoutChoice puts question back to unanswered.
func (f Form) WithoutChoice(question int) Form {
	if question < 0 || question >= len(f.choices) {
		return f
	}
	choices := make([]int, len(f.choices))
	copy(choices, f.choices)
	choices[question] = -1
	return Form{questions: f.questions, choices: choices}
}

func (f Form) Unanswered() []int {
	missing := make([]int, 0)
	for idx := range f.questions {
		if f.State(idx) == Unanswered {
			missing = append(missing, idx)
		}
	}
	return missing
}

func (f Form) Complete() bool {
	return len(f.Unanswered()) == 0
}

// Validate blocks submission until every question has an answer.
func (f Form) Validate() error {
	if missing := f.Unanswered(); len(missing) > 0 {
		return &IncompleteError{Missing: missing}
	}
	return nil
}

// Score counts correct answers; unanswered questions count as wrong.
func (f Form) Score() (correct, total int) {
	for idx, question := range f.questions {
		if choice, ok := f.Choice(idx); ok && choice == question.CorrectIndex {
			correct++
		}
	}
	return correct, len(f.questions)
}

// Outcomes reports, per question, whether the chosen option was right.
func (f Form) Outcomes() []bool {
	out := make([]bool, len(f.questions))
	for idx, question := range f.questions {
		choice, ok := f.Choice(idx)
		out[idx] = ok && choice == question.CorrectIndex
	}
	return out
}

// NormalizeName trims name and rejects an empty result.
func NormalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrNameRequired
	}
	return name, nil
}

type Result struct {
	Name    string
	Correct int
	Total   int
}

// Grade validates the form, then the name, and scores the round.
func Grade(form Form, name string) (Result, error) {
	if err := form.Validate(); err != nil {
		return Result{}, err
	}
	name, err := NormalizeName(name)
	if err != nil {
		return Result{}, err
	}
	correct, total := form.Score()
	return Result{Name: name, Correct: correct, Total: total}, nil
}
