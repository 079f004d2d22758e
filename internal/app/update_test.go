package app

import (
	"errors"
	"reflect"
	"testing"

	"trivia-app/internal/quiz"
	"trivia-app/internal/scores"
)

func twoQuestions() []quiz.Question {
	return []quiz.Question{
		{
			QuestionID:   "q1",
			Question:     "2+2?",
			Options:      []quiz.Option{{Letter: "A", Text: "4"}, {Letter: "B", Text: "5"}},
			CorrectIndex: 0,
		},
		{
			QuestionID:   "q2",
			Question:     "Sky?",
			Options:      []quiz.Option{{Letter: "A", Text: "Green"}, {Letter: "B", Text: "Blue"}},
			CorrectIndex: 1,
		},
	}
}

func readyState(t *testing.T) State {
	t.Helper()
	state, effects := Update(State{}, Loaded{Round: "r1", Amount: 2})
	if len(effects) != 1 {
		t.Fatalf("Loaded should request a fetch, got %v", effects)
	}
	state, _ = Update(state, QuestionsLoaded{Round: "r1", Questions: twoQuestions()})
	if state.Phase != PhaseReady {
		t.Fatalf("expected ready phase, got %s", state.Phase)
	}
	return state
}

func hasEffect[T Effect](effects []Effect) bool {
	for _, effect := range effects {
		if _, ok := effect.(T); ok {
			return true
		}
	}
	return false
}

func TestLoadedRestoresPreferences(t *testing.T) {
	state, effects := Update(State{}, Loaded{
		Round:    "r1",
		Amount:   10,
		Username: "ann",
		Remember: true,
		Sort:     scores.SortHighest,
		Filter:   "an",
	})

	if state.Phase != PhaseLoading || !state.Loading() {
		t.Fatalf("expected loading phase, got %s", state.Phase)
	}
	if state.Username != "ann" || !state.Remember || state.Sort != scores.SortHighest || state.Filter != "an" {
		t.Fatalf("preferences not restored: %+v", state)
	}
	want := []Effect{FetchQuestions{Round: "r1", Amount: 10}}
	if !reflect.DeepEqual(effects, want) {
		t.Fatalf("effects = %#v, want %#v", effects, want)
	}

	unremembered, _ := Update(State{}, Loaded{Round: "r1", Username: "ann"})
	if unremembered.Username != "" {
		t.Fatalf("username without consent should not be restored")
	}
}

func TestStaleFetchResultsAreDropped(t *testing.T) {
	state, _ := Update(State{}, Loaded{Round: "r1"})
	state, _ = Update(state, NewPlayer{Round: "r2"})

	state, effects := Update(state, QuestionsLoaded{Round: "r1", Questions: twoQuestions()})
	if state.Phase != PhaseLoading || state.Form.Len() != 0 || effects != nil {
		t.Fatalf("stale questions rendered into round r2: %+v", state)
	}

	state, _ = Update(state, QuestionsFailed{Round: "r1", Err: errors.New("late")})
	if state.Phase != PhaseLoading || state.FetchErr != "" {
		t.Fatalf("stale failure applied: %+v", state)
	}

	state, _ = Update(state, QuestionsLoaded{Round: "r2", Questions: twoQuestions()})
	if state.Phase != PhaseReady || state.Form.Len() != 2 {
		t.Fatalf("current round not applied: %+v", state)
	}
}

func TestFetchFailureKeepsStateAndStopsLoading(t *testing.T) {
	state, _ := Update(State{Username: "x"}, Loaded{Round: "r1", Sort: scores.SortLowest})
	state, effects := Update(state, QuestionsFailed{Round: "r1", Err: errors.New("boom")})

	if state.Loading() || state.Phase != PhaseFailed || state.FetchErr != "boom" {
		t.Fatalf("unexpected state after failure: %+v", state)
	}
	if len(effects) != 0 {
		t.Fatalf("failure should not retry, got %v", effects)
	}
	if state.Sort != scores.SortLowest {
		t.Fatalf("prior preferences lost")
	}
}

func TestSubmitIncompleteFlagsAndFocuses(t *testing.T) {
	state := readyState(t)
	state, _ = Update(state, Select{Question: 0, Option: 0})

	state, effects := Update(state, Submit{Name: "ann"})
	if state.Phase != PhaseReady {
		t.Fatalf("incomplete submit should stay ready, got %s", state.Phase)
	}
	if !reflect.DeepEqual(state.Missing, []int{1}) || state.Focus != 1 || !state.Flagged(1) {
		t.Fatalf("unexpected flags: missing=%v focus=%d", state.Missing, state.Focus)
	}
	if hasEffect[AppendScore](effects) {
		t.Fatalf("incomplete submit must not append a score")
	}
	if !hasEffect[Alert](effects) || !hasEffect[Focus](effects) {
		t.Fatalf("expected alert and focus effects, got %v", effects)
	}

	state, _ = Update(state, Select{Question: 1, Option: 1})
	if state.Flagged(1) {
		t.Fatalf("answering should clear the flag")
	}
}

func TestSubmitRequiresName(t *testing.T) {
	state := readyState(t)
	state, _ = Update(state, Select{Question: 0, Option: 0})
	state, _ = Update(state, Select{Question: 1, Option: 1})

	state, effects := Update(state, Submit{Name: "  "})
	if state.Phase != PhaseReady || hasEffect[AppendScore](effects) {
		t.Fatalf("blank name should block submission")
	}
	if state.Alert != alertNoName {
		t.Fatalf("alert = %q", state.Alert)
	}
}

func TestSubmitAppendsScoreAndRemembers(t *testing.T) {
	state := readyState(t)
	state, _ = Update(state, Select{Question: 0, Option: 0})
	state, _ = Update(state, Select{Question: 1, Option: 0})

	state, effects := Update(state, Submit{Name: " ann ", Remember: true})
	if state.Phase != PhaseSubmitted || state.Result == nil {
		t.Fatalf("expected submitted state, got %+v", state)
	}
	if *state.Result != (quiz.Result{Name: "ann", Correct: 1, Total: 2}) {
		t.Fatalf("unexpected result: %+v", *state.Result)
	}

	want := []Effect{
		AppendScore{Name: "ann", Correct: 1, Total: 2},
		SavePreference{Key: scores.KeyUsername, Value: "ann"},
		SavePreference{Key: scores.KeyRemember, Value: "true"},
	}
	if !reflect.DeepEqual(effects, want) {
		t.Fatalf("effects = %#v, want %#v", effects, want)
	}

	again, effects := Update(state, Submit{Name: "ann"})
	if again.Phase != PhaseSubmitted || hasEffect[AppendScore](effects) {
		t.Fatalf("double submit should not append again")
	}
}

func TestSubmitWithoutRememberForgets(t *testing.T) {
	state := readyState(t)
	state, _ = Update(state, Select{Question: 0, Option: 0})
	state, _ = Update(state, Select{Question: 1, Option: 1})

	_, effects := Update(state, Submit{Name: "bob"})
	if !hasEffect[DeletePreference](effects) || hasEffect[SavePreference](effects) {
		t.Fatalf("expected identity to be dropped, got %v", effects)
	}
}

func TestNewPlayerResetsRound(t *testing.T) {
	state := readyState(t)
	state, _ = Update(state, Select{Question: 0, Option: 0})
	state.Username = "ann"
	state.Remember = false

	next, effects := Update(state, NewPlayer{Round: "r2", Amount: 5})
	if next.Round != "r2" || next.Phase != PhaseLoading || next.Form.Len() != 0 || next.Result != nil {
		t.Fatalf("round not reset: %+v", next)
	}
	if next.Username != "" {
		t.Fatalf("unremembered name should be cleared")
	}
	if !reflect.DeepEqual(effects, []Effect{FetchQuestions{Round: "r2", Amount: 5}}) {
		t.Fatalf("unexpected effects: %v", effects)
	}

	state.Remember = true
	next, _ = Update(state, NewPlayer{Round: "r3"})
	if next.Username != "ann" {
		t.Fatalf("remembered name should survive a new round")
	}
}

func TestClearScoresNeedsConfirmation(t *testing.T) {
	state, effects := Update(State{}, ClearScores{})
	if hasEffect[ClearStoredScores](effects) || state.Alert == "" {
		t.Fatalf("unconfirmed clear should only alert")
	}

	_, effects = Update(State{}, ClearScores{Confirmed: true})
	if !hasEffect[ClearStoredScores](effects) {
		t.Fatalf("confirmed clear should wipe scores")
	}
}

func TestPreferenceMessages(t *testing.T) {
	state, effects := Update(State{}, SetSort{Mode: "HIGHEST"})
	if state.Sort != scores.SortHighest {
		t.Fatalf("sort = %q", state.Sort)
	}
	if !reflect.DeepEqual(effects, []Effect{SavePreference{Key: scores.KeySort, Value: "highest"}}) {
		t.Fatalf("unexpected sort effects: %v", effects)
	}

	state, effects = Update(state, SetFilter{Filter: "an"})
	if state.Filter != "an" || !hasEffect[SavePreference](effects) {
		t.Fatalf("filter not saved")
	}
	_, effects = Update(state, SetFilter{Filter: ""})
	if !reflect.DeepEqual(effects, []Effect{DeletePreference{Key: scores.KeyFilter}}) {
		t.Fatalf("clearing filter should delete key, got %v", effects)
	}

	state = State{Username: "ann", Remember: true}
	state, effects = Update(state, ForgetMe{})
	if state.Username != "" || state.Remember || len(effects) != 2 {
		t.Fatalf("ForgetMe = %+v, %v", state, effects)
	}
}

func TestSelectBeforeReadyAlerts(t *testing.T) {
	state, effects := Update(State{}, Select{Question: 0, Option: 0})
	if state.Alert != alertNotReady || !hasEffect[Alert](effects) {
		t.Fatalf("expected not-ready alert")
	}

	ready := readyState(t)
	ready, _ = Update(ready, Select{Question: 9, Option: 0})
	if ready.Alert != alertBadQuestion {
		t.Fatalf("expected bad-question alert, got %q", ready.Alert)
	}
}

func TestStaleRoundFormIsRejected(t *testing.T) {
	state := readyState(t)

	state, effects := Update(state, Select{Round: "r0", Question: 0, Option: 0})
	if _, answered := state.Form.Choice(0); answered || state.Alert != alertStaleRound {
		t.Fatalf("selection for an earlier round applied: alert=%q", state.Alert)
	}
	if !hasEffect[Alert](effects) {
		t.Fatalf("expected stale-round alert")
	}

	state, _ = Update(state, Select{Round: "r1", Question: 0, Option: 0})
	state, _ = Update(state, Select{Round: "r1", Question: 1, Option: 1})
	state, effects = Update(state, Submit{Round: "r0", Name: "ann"})
	if state.Phase != PhaseReady || hasEffect[AppendScore](effects) {
		t.Fatalf("submit for an earlier round must not record a score")
	}

	state, effects = Update(state, Submit{Round: "r1", Name: "ann"})
	if state.Phase != PhaseSubmitted || !hasEffect[AppendScore](effects) {
		t.Fatalf("submit for the current round should record, got %s", state.Phase)
	}
}

func TestDeselectClearsAnswer(t *testing.T) {
	state := readyState(t)
	state, _ = Update(state, Select{Question: 0, Option: 0})
	state, _ = Update(state, Select{Question: 1, Option: 1})

	ignored, _ := Update(state, Deselect{Round: "r0", Question: 1})
	if !ignored.Form.Complete() {
		t.Fatalf("deselect for an earlier round should be ignored")
	}

	state, _ = Update(state, Deselect{Round: "r1", Question: 1})
	if state.Form.Complete() || state.Form.State(1) != quiz.Unanswered {
		t.Fatalf("question 2 should be unanswered after Deselect")
	}

	state, effects := Update(state, Submit{Name: "ann"})
	if !reflect.DeepEqual(state.Missing, []int{1}) || hasEffect[AppendScore](effects) {
		t.Fatalf("deselected question should block submission, missing=%v", state.Missing)
	}
}
