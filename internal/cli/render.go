package cli

import (
	"fmt"
	"io"
	"log"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"trivia-app/internal/app"
	"trivia-app/internal/quiz"
	"trivia-app/internal/scores"
)

func printQuestion(out io.Writer, number int, question quiz.Question) {
	fmt.Fprintln(out)
	if question.Category != "" {
		fmt.Fprintf(out, "Q%d [%s]: %s\n\n", number, question.Category, question.Question)
	} else {
		fmt.Fprintf(out, "Q%d: %s\n\n", number, question.Question)
	}
	for _, option := range question.Options {
		fmt.Fprintf(out, "%s. %s\n", option.Letter, option.Text)
	}
	fmt.Fprintln(out)
}

func printAlerts(out io.Writer, effects []app.Effect) {
	for _, effect := range effects {
		if alert, ok := effect.(app.Alert); ok {
			fmt.Fprintf(out, "\n! %s\n", alert.Message)
		}
	}
}

func printResult(out io.Writer, state app.State) {
	if state.Result == nil {
		return
	}

	fmt.Fprintln(out)
	outcomes := state.Form.Outcomes()
	for idx, question := range state.Form.Questions() {
		mark := "wrong"
		if outcomes[idx] {
			mark = "right"
		}
		fmt.Fprintf(out, "Q%d %s, answer: %s\n", idx+1, mark, question.CorrectText())
	}

	result := state.Result
	percent := scores.Record{Correct: result.Correct, Total: result.Total}.Percent()
	fmt.Fprintf(out, "\n%s scored %d/%d (%d%%)\n", result.Name, result.Correct, result.Total, percent)
	if state.Alert != "" {
		fmt.Fprintf(out, "! %s\n", state.Alert)
	}
}

func printScoreboard(out io.Writer, view scores.View) {
	fmt.Fprintf(out, "\nScoreboard (sort: %s", view.Sort)
	if view.Filter != "" {
		fmt.Fprintf(out, ", filter: %q", view.Filter)
	}
	fmt.Fprintln(out, ")")

	if len(view.Rows) == 0 {
		if view.Stored == 0 {
			fmt.Fprintln(out, "No scores yet.")
		} else {
			fmt.Fprintln(out, "No scores match the filter.")
		}
		return
	}

	table := tablewriter.NewTable(out, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{
				PerColumn: []tw.Align{tw.AlignRight, tw.AlignLeft, tw.AlignRight, tw.AlignRight, tw.AlignLeft},
			},
		},
	}))
	table.Header("#", "Name", "Score", "Percent", "When")
	for idx, row := range view.Rows {
		name := row.Name
		if row.Top {
			name = "* " + name
		}
		err := table.Append(
			strconv.Itoa(idx+1),
			name,
			fmt.Sprintf("%d/%d", row.Correct, row.Total),
			fmt.Sprintf("%d%%", row.Percent),
			formatWhen(row.Record),
		)
		if err != nil {
			log.Printf("[cli] scoreboard row %d: %v", idx+1, err)
		}
	}

	average := "-"
	if view.HasAverage {
		average = fmt.Sprintf("%d%%", view.Average)
	}
	top := fmt.Sprintf("top %d%%", view.TopPercent)
	if view.Tied() {
		top = fmt.Sprintf("top %d%% (%d tied)", view.TopPercent, view.TopCount)
	}
	table.Footer("", top, "avg", average, "")
	if err := table.Render(); err != nil {
		log.Printf("[cli] render scoreboard: %v", err)
	}
}

func formatWhen(record scores.Record) string {
	if record.Timestamp == 0 {
		return "-"
	}
	return record.Time().Local().Format(time.DateTime)
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, "\nCommands:")
	fmt.Fprintln(out, "  new                                 play another round")
	fmt.Fprintln(out, "  scores                              show the scoreboard")
	fmt.Fprintln(out, "  sort newest|oldest|highest|lowest")
	fmt.Fprintln(out, "  filter [text]                       empty text clears the filter")
	fmt.Fprintln(out, "  clear                               delete all scores")
	fmt.Fprintln(out, "  forget                              forget the remembered name")
	fmt.Fprintln(out, "  exit")
}
