package web

import (
	"embed"
	"html/template"
	"strconv"
	"time"

	"trivia-app/internal/app"
	"trivia-app/internal/quiz"
	"trivia-app/internal/scores"
)

//go:embed templates/page.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html"))

type pageData struct {
	Round     string
	Loading   bool
	Failed    bool
	FetchErr  string
	Submitted bool
	Alert     string

	Questions []questionView
	Name      string
	Remember  bool

	Result     *resultView
	SortModes  []sortOption
	Filter     string
	Scoreboard scoreboardView
}

type questionView struct {
	Number     int
	Field      string
	Text       string
	Category   string
	Difficulty string
	Options    []optionView
	Flagged    bool
	Outcome    string
	Answer     string
}

type optionView struct {
	ID        string
	Value     int
	Letter    string
	Text      string
	Checked   bool
	Autofocus bool
}

type resultView struct {
	Name    string
	Correct int
	Total   int
	Percent int
}

type sortOption struct {
	Value    string
	Selected bool
}

type scoreboardView struct {
	Rows       []scoreRow
	Empty      bool
	Filtered   bool
	TopPercent int
	TopCount   int
	Tied       bool
	Average    string
}

type scoreRow struct {
	Name    string
	Score   string
	Percent int
	When    string
	Top     bool
}

// newPageData builds the template input. Alerts, flags and focus belong to
// the response of the action that raised them; without feedback a reload
// shows the plain form.
func newPageData(state app.State, savedName string, feedback bool) pageData {
	if !feedback {
		state.Alert = ""
		state.Focus = -1
		state.Missing = nil
	}

	data := pageData{
		Round:     state.Round,
		Loading:   state.Loading(),
		Failed:    state.Phase == app.PhaseFailed,
		FetchErr:  state.FetchErr,
		Submitted: state.Phase == app.PhaseSubmitted,
		Alert:     state.Alert,
		Name:      state.Username,
		Remember:  state.Remember,
		Filter:    state.Filter,
	}
	if data.Name == "" && savedName != "" {
		data.Name = savedName
		data.Remember = true
	}

	var outcomes []bool
	if data.Submitted {
		outcomes = state.Form.Outcomes()
	}
	for idx, question := range state.Form.Questions() {
		data.Questions = append(data.Questions, newQuestionView(state, idx, question, outcomes))
	}

	if state.Result != nil {
		data.Result = &resultView{
			Name:    state.Result.Name,
			Correct: state.Result.Correct,
			Total:   state.Result.Total,
			Percent: scores.Record{Correct: state.Result.Correct, Total: state.Result.Total}.Percent(),
		}
	}

	for _, mode := range scores.SortModes {
		data.SortModes = append(data.SortModes, sortOption{Value: string(mode), Selected: mode == state.View.Sort})
	}
	data.Scoreboard = newScoreboardView(state.View)
	return data
}

func newQuestionView(state app.State, idx int, question quiz.Question, outcomes []bool) questionView {
	field := quiz.FieldName(idx)
	view := questionView{
		Number:     idx + 1,
		Field:      field,
		Text:       question.Question,
		Category:   question.Category,
		Difficulty: question.Difficulty,
		Flagged:    state.Flagged(idx),
	}

	choice, answered := state.Form.Choice(idx)
	for optIdx, option := range question.Options {
		view.Options = append(view.Options, optionView{
			ID:        field + "_" + strconv.Itoa(optIdx),
			Value:     optIdx,
			Letter:    option.Letter,
			Text:      option.Text,
			Checked:   answered && choice == optIdx,
			Autofocus: state.Focus == idx && optIdx == 0,
		})
	}

	if outcomes != nil {
		view.Outcome = "wrong"
		if outcomes[idx] {
			view.Outcome = "right"
		}
		view.Answer = question.CorrectText()
	}
	return view
}

func newScoreboardView(view scores.View) scoreboardView {
	board := scoreboardView{
		Empty:      view.Stored == 0,
		Filtered:   view.Stored > 0 && len(view.Rows) == 0,
		TopPercent: view.TopPercent,
		TopCount:   view.TopCount,
		Tied:       view.Tied(),
		Average:    "-",
	}
	if view.HasAverage {
		board.Average = strconv.Itoa(view.Average) + "%"
	}
	for _, row := range view.Rows {
		when := "-"
		if row.Timestamp != 0 {
			when = row.Time().UTC().Format(time.RFC3339)
		}
		board.Rows = append(board.Rows, scoreRow{
			Name:    row.Name,
			Score:   strconv.Itoa(row.Correct) + "/" + strconv.Itoa(row.Total),
			Percent: row.Percent,
			When:    when,
			Top:     row.Top,
		})
	}
	return board
}
