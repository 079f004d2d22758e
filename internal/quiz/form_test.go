package quiz

import (
	"errors"
	"reflect"
	"testing"
)

func sampleQuestions() []Question {
	return []Question{
		{
			QuestionID: "q1",
			Question:   "2+2?",
			Options: []Option{
				{Letter: "A", Text: "4"},
				{Letter: "B", Text: "3"},
			},
			CorrectIndex: 0,
		},
		{
			QuestionID: "q2",
			Question:   "Sky color?",
			Options: []Option{
				{Letter: "A", Text: "Green"},
				{Letter: "B", Text: "Blue"},
			},
			CorrectIndex: 1,
		},
		{
			QuestionID: "q3",
			Question:   "Largest planet?",
			Options: []Option{
				{Letter: "A", Text: "Jupiter"},
				{Letter: "B", Text: "Mars"},
			},
			CorrectIndex: 0,
		},
	}
}

func mustChoose(t *testing.T, form Form, question, option int) Form {
	t.Helper()
	next, err := form.WithChoice(question, option)
	if err != nil {
		t.Fatalf("WithChoice(%d, %d) failed: %v", question, option, err)
	}
	return next
}

func TestFormStartsUnanswered(t *testing.T) {
	form := NewForm(sampleQuestions())
	if form.Len() != 3 {
		t.Fatalf("Len = %d", form.Len())
	}
	for idx := 0; idx < form.Len(); idx++ {
		if form.State(idx) != Unanswered {
			t.Fatalf("question %d should start unanswered", idx)
		}
	}
	if got := form.Unanswered(); !reflect.DeepEqual(got, []int{0, 1, 2}) {
		t.Fatalf("Unanswered = %v", got)
	}
}

func TestFormWithChoiceDoesNotMutateOriginal(t *testing.T) {
	original := NewForm(sampleQuestions())
	updated := mustChoose(t, original, 1, 0)

	if updated.State(1) != Answered {
		t.Fatalf("updated form should record the answer")
	}
	if original.State(1) != Unanswered {
		t.Fatalf("original form was mutated")
	}
}

func TestFormWithChoiceRejectsBadIndexes(t *testing.T) {
	form := NewForm(sampleQuestions())

	if _, err := form.WithChoice(7, 0); !errors.Is(err, ErrInvalidQuestion) {
		t.Fatalf("expected ErrInvalidQuestion, got %v", err)
	}
	if _, err := form.WithChoice(0, 2); !errors.Is(err, ErrInvalidOption) {
		t.Fatalf("expected ErrInvalidOption, got %v", err)
	}
	if _, err := form.WithChoice(0, -1); !errors.Is(err, ErrInvalidOption) {
		t.Fatalf("expected ErrInvalidOption for negative option, got %v", err)
	}
}

func TestFormValidateReportsFirstUnanswered(t *testing.T) {
	form := NewForm(sampleQuestions())
	form = mustChoose(t, form, 0, 0)
	form = mustChoose(t, form, 2, 1)

	err := form.Validate()
	var incomplete *IncompleteError
	if !errors.As(err, &incomplete) {
		t.Fatalf("expected IncompleteError, got %v", err)
	}
	if incomplete.First() != 1 || len(incomplete.Missing) != 1 {
		t.Fatalf("unexpected missing list: %+v", incomplete.Missing)
	}

	form = mustChoose(t, form, 1, 1)
	if err := form.Validate(); err != nil {
		t.Fatalf("complete form should validate, got %v", err)
	}

	form = form.WithoutChoice(2)
	if form.State(2) != Unanswered {
		t.Fatalf("WithoutChoice should reset state")
	}
}

func TestFormScore(t *testing.T) {
	form := NewForm(sampleQuestions())
	form = mustChoose(t, form, 0, 0)
	form = mustChoose(t, form, 1, 0)
	form = mustChoose(t, form, 2, 0)

	correct, total := form.Score()
	if correct != 2 || total != 3 {
		t.Fatalf("Score = %d/%d, want 2/3", correct, total)
	}
	if got := form.Outcomes(); !reflect.DeepEqual(got, []bool{true, false, true}) {
		t.Fatalf("Outcomes = %v", got)
	}
}

func TestGrade(t *testing.T) {
	incomplete := mustChoose(t, NewForm(sampleQuestions()), 0, 0)
	if _, err := Grade(incomplete, "ann"); err == nil {
		t.Fatalf("expected incomplete form to be rejected")
	}

	complete := incomplete
	complete = mustChoose(t, complete, 1, 1)
	complete = mustChoose(t, complete, 2, 0)

	if _, err := Grade(complete, "   "); !errors.Is(err, ErrNameRequired) {
		t.Fatalf("expected ErrNameRequired, got %v", err)
	}

	result, err := Grade(complete, "  ann ")
	if err != nil {
		t.Fatalf("Grade failed: %v", err)
	}
	if result != (Result{Name: "ann", Correct: 3, Total: 3}) {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestFieldName(t *testing.T) {
	if got := FieldName(3); got != "answer3" {
		t.Fatalf("FieldName(3) = %q", got)
	}
}
