// Package app is the quiz controller. Update is a pure transition from a
// state and a message to the next state plus the effects to perform;
// Controller performs them against storage and the question API.
package app

import (
	"errors"

	"trivia-app/internal/quiz"
	"trivia-app/internal/scores"
)

const (
	alertIncomplete  = "Please answer all questions before submitting."
	alertNoName      = "Please enter your name before submitting."
	alertNotReady    = "Questions are not loaded yet."
	alertConfirm     = "Clearing scores needs confirmation."
	alertSaveFailed  = "Your score could not be saved."
	alertBadQuestion = "That answer does not belong to this round."
	alertStaleRound  = "That form belongs to an earlier round."
)

var ErrConfirmationRequired = errors.New("confirmation required")

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseFailed
	PhaseSubmitted
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseFailed:
		return "failed"
	case PhaseSubmitted:
		return "submitted"
	default:
		return "idle"
	}
}

type State struct {
	Round    string
	Phase    Phase
	Form     quiz.Form
	FetchErr string

	Username string
	Remember bool
	Sort     scores.SortMode
	Filter   string

	Result  *quiz.Result
	Alert   string
	Focus   int
	Missing []int

	View scores.View
}

// Loading reports whether the loading indicator should be shown.
func (s State) Loading() bool {
	return s.Phase == PhaseLoading
}

// Flagged reports whether question index was unanswered at the last submit.
func (s State) Flagged(index int) bool {
	for _, missing := range s.Missing {
		if missing == index {
			return true
		}
	}
	return false
}

type Msg interface {
	isMsg()
}

// Loaded starts the first round with preferences restored from storage.
type Loaded struct {
	Round    string
	Amount   int
	Username string
	Remember bool
	Sort     scores.SortMode
	Filter   string
}

type QuestionsLoaded struct {
	Round     string
	Questions []quiz.Question
}

type QuestionsFailed struct {
	Round string
	Err   error
}

// Round, when set, must match the current round; forms rendered for an
// earlier round are rejected.
type Select struct {
	Round    string
	Question int
	Option   int
}

type Deselect struct {
	Round    string
	Question int
}

type Submit struct {
	Round    string
	Name     string
	Remember bool
}

type NewPlayer struct {
	Round  string
	Amount int
}

type ClearScores struct {
	Confirmed bool
}

type ForgetMe struct{}

type SetSort struct {
	Mode scores.SortMode
}

type SetFilter struct {
	Filter string
}

func (Loaded) isMsg()          {}
func (QuestionsLoaded) isMsg() {}
func (QuestionsFailed) isMsg() {}
func (Select) isMsg()          {}
func (Deselect) isMsg()        {}
func (Submit) isMsg()          {}
func (NewPlayer) isMsg()       {}
func (ClearScores) isMsg()     {}
func (ForgetMe) isMsg()        {}
func (SetSort) isMsg()         {}
func (SetFilter) isMsg()       {}

type Effect interface {
	isEffect()
}

type FetchQuestions struct {
	Round  string
	Amount int
}

type AppendScore struct {
	Name    string
	Correct int
	Total   int
}

type ClearStoredScores struct{}

type SavePreference struct {
	Key   string
	Value string
}

type DeletePreference struct {
	Key string
}

// Alert and Focus are left for the rendering adapter.
type Alert struct {
	Message string
}

type Focus struct {
	Question int
}

func (FetchQuestions) isEffect()    {}
func (AppendScore) isEffect()       {}
func (ClearStoredScores) isEffect() {}
func (SavePreference) isEffect()    {}
func (DeletePreference) isEffect()  {}
func (Alert) isEffect()             {}
func (Focus) isEffect()             {}

// Update never touches storage or the network.
func Update(s State, msg Msg) (State, []Effect) {
	s.Alert = ""
	s.Focus = -1

	switch m := msg.(type) {
	case Loaded:
		next := State{
			Round:    m.Round,
			Phase:    PhaseLoading,
			Form:     quiz.NewForm(nil),
			Remember: m.Remember,
			Sort:     scores.ParseSortMode(string(m.Sort)),
			Filter:   m.Filter,
			Focus:    -1,
			View:     s.View,
		}
		if m.Remember {
			next.Username = m.Username
		}
		return next, []Effect{FetchQuestions{Round: m.Round, Amount: m.Amount}}

	case QuestionsLoaded:
		if m.Round != s.Round || s.Phase != PhaseLoading {
			return s, nil
		}
		s.Phase = PhaseReady
		s.Form = quiz.NewForm(m.Questions)
		s.FetchErr = ""
		return s, nil

	case QuestionsFailed:
		if m.Round != s.Round || s.Phase != PhaseLoading {
			return s, nil
		}
		s.Phase = PhaseFailed
		if m.Err != nil {
			s.FetchErr = m.Err.Error()
		}
		return s, nil

	case Select:
		if s.Phase != PhaseReady {
			s.Alert = alertNotReady
			return s, []Effect{Alert{Message: s.Alert}}
		}
		if staleRound(s, m.Round) {
			s.Alert = alertStaleRound
			return s, []Effect{Alert{Message: s.Alert}}
		}
		form, err := s.Form.WithChoice(m.Question, m.Option)
		if err != nil {
			s.Alert = alertBadQuestion
			return s, []Effect{Alert{Message: s.Alert}}
		}
		s.Form = form
		s.Missing = removeIndex(s.Missing, m.Question)
		return s, nil

	case Deselect:
		if s.Phase != PhaseReady || staleRound(s, m.Round) {
			return s, nil
		}
		s.Form = s.Form.WithoutChoice(m.Question)
		return s, nil

	case Submit:
		return submit(s, m)

	case NewPlayer:
		next := State{
			Round:    m.Round,
			Phase:    PhaseLoading,
			Form:     quiz.NewForm(nil),
			Remember: s.Remember,
			Sort:     s.Sort,
			Filter:   s.Filter,
			Focus:    -1,
			View:     s.View,
		}
		if s.Remember {
			next.Username = s.Username
		}
		return next, []Effect{FetchQuestions{Round: m.Round, Amount: m.Amount}}

	case ClearScores:
		if !m.Confirmed {
			s.Alert = alertConfirm
			return s, []Effect{Alert{Message: s.Alert}}
		}
		return s, []Effect{ClearStoredScores{}}

	case ForgetMe:
		s.Remember = false
		s.Username = ""
		return s, []Effect{
			DeletePreference{Key: scores.KeyUsername},
			DeletePreference{Key: scores.KeyRemember},
		}

	case SetSort:
		s.Sort = scores.ParseSortMode(string(m.Mode))
		return s, []Effect{SavePreference{Key: scores.KeySort, Value: string(s.Sort)}}

	case SetFilter:
		s.Filter = m.Filter
		if m.Filter == "" {
			return s, []Effect{DeletePreference{Key: scores.KeyFilter}}
		}
		return s, []Effect{SavePreference{Key: scores.KeyFilter, Value: m.Filter}}
	}

	return s, nil
}

func submit(s State, m Submit) (State, []Effect) {
	if s.Phase != PhaseReady {
		s.Alert = alertNotReady
		return s, []Effect{Alert{Message: s.Alert}}
	}
	if staleRound(s, m.Round) {
		s.Alert = alertStaleRound
		return s, []Effect{Alert{Message: s.Alert}}
	}

	s.Username = m.Name
	s.Remember = m.Remember

	result, err := quiz.Grade(s.Form, m.Name)
	if err != nil {
		var incomplete *quiz.IncompleteError
		if errors.As(err, &incomplete) {
			s.Missing = incomplete.Missing
			s.Focus = incomplete.First()
			s.Alert = alertIncomplete
			return s, []Effect{Alert{Message: s.Alert}, Focus{Question: s.Focus}}
		}
		s.Alert = alertNoName
		return s, []Effect{Alert{Message: s.Alert}}
	}

	s.Phase = PhaseSubmitted
	s.Username = result.Name
	s.Missing = nil
	s.Result = &result

	effects := []Effect{AppendScore{Name: result.Name, Correct: result.Correct, Total: result.Total}}
	if m.Remember {
		effects = append(effects,
			SavePreference{Key: scores.KeyUsername, Value: result.Name},
			SavePreference{Key: scores.KeyRemember, Value: "true"},
		)
	} else {
		effects = append(effects,
			DeletePreference{Key: scores.KeyUsername},
			DeletePreference{Key: scores.KeyRemember},
		)
	}
	return s, effects
}

func staleRound(s State, round string) bool {
	return round != "" && round != s.Round
}

func removeIndex(list []int, value int) []int {
	if len(list) == 0 {
		return list
	}
	out := make([]int, 0, len(list))
	for _, item := range list {
		if item != value {
			out = append(out, item)
		}
	}
	return out
}
