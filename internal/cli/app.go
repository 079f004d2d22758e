package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"trivia-app/internal/app"
	"trivia-app/internal/quiz"
	"trivia-app/internal/scores"
)

const maxAttempts = 3

var errQuit = errors.New("quit")

type session struct {
	ctx        context.Context
	reader     *bufio.Reader
	out        io.Writer
	controller *app.Controller
}

// Run plays rounds on the terminal until the user exits or input ends.
func Run(ctx context.Context, in io.Reader, out io.Writer, controller *app.Controller) error {
	s := &session{
		ctx:        ctx,
		reader:     bufio.NewReader(in),
		out:        out,
		controller: controller,
	}

	state, _ := controller.Start(ctx)
	if err := s.playRound(state); err != nil {
		return ignoreQuit(err)
	}
	return ignoreQuit(s.commandLoop())
}

func (s *session) playRound(state app.State) error {
	if state.Phase == app.PhaseFailed {
		fmt.Fprintf(s.out, "Could not load questions: %s\n", state.FetchErr)
		fmt.Fprintln(s.out, "Type 'new' to try again.")
		printScoreboard(s.out, state.View)
		return nil
	}
	if state.Phase != app.PhaseReady {
		return nil
	}

	pending := make([]int, 0, state.Form.Len())
	for idx := 0; idx < state.Form.Len(); idx++ {
		pending = append(pending, idx)
	}

	for {
		for _, idx := range pending {
			question, _ := state.Form.Question(idx)
			printQuestion(s.out, idx+1, question)

			choice, ok, err := s.getAnswer(len(question.Options))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(s.out, "Skipped.")
				continue
			}
			state, _ = s.controller.Dispatch(s.ctx, app.Select{Round: state.Round, Question: idx, Option: choice})
		}

		// Skipped questions are reported before asking who is playing.
		name, remember := state.Username, state.Remember
		if state.Form.Complete() {
			var err error
			name, remember, err = s.promptIdentity(state)
			if err != nil {
				return err
			}
		}

		var ui []app.Effect
		state, ui = s.controller.Dispatch(s.ctx, app.Submit{Round: state.Round, Name: name, Remember: remember})
		if state.Phase == app.PhaseSubmitted {
			break
		}

		printAlerts(s.out, ui)
		if len(state.Missing) == 0 {
			// Only the name was rejected; ask again without replaying questions.
			pending = nil
			continue
		}
		pending = state.Missing
		fmt.Fprintf(s.out, "Going back to question %d.\n", state.Focus+1)
	}

	printResult(s.out, state)
	printScoreboard(s.out, state.View)
	return nil
}

func (s *session) commandLoop() error {
	printHelp(s.out)

	for {
		fmt.Fprint(s.out, "\n> ")
		line, err := s.readLine()
		if err != nil {
			return err
		}

		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}

		switch strings.ToLower(args[0]) {
		case "help":
			printHelp(s.out)
		case "exit", "quit":
			return nil
		case "new":
			state, _ := s.controller.NewPlayer(s.ctx)
			if err := s.playRound(state); err != nil {
				return err
			}
		case "scores":
			printScoreboard(s.out, s.controller.State().View)
		case "sort":
			if len(args) != 2 || !scores.SortMode(strings.ToLower(args[1])).Valid() {
				fmt.Fprintln(s.out, "usage: sort newest|oldest|highest|lowest")
				continue
			}
			state, _ := s.controller.Dispatch(s.ctx, app.SetSort{Mode: scores.SortMode(args[1])})
			printScoreboard(s.out, state.View)
		case "filter":
			filter := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), args[0]))
			state, _ := s.controller.Dispatch(s.ctx, app.SetFilter{Filter: filter})
			printScoreboard(s.out, state.View)
		case "clear":
			confirmed, err := s.promptYesNo("Clear all scores? (yes/no): ")
			if err != nil {
				return err
			}
			if !confirmed {
				continue
			}
			state, _ := s.controller.Clear(s.ctx, true)
			fmt.Fprintln(s.out, "Scores cleared.")
			printScoreboard(s.out, state.View)
		case "forget":
			s.controller.Dispatch(s.ctx, app.ForgetMe{})
			fmt.Fprintln(s.out, "Remembered name forgotten.")
		default:
			fmt.Fprintln(s.out, "unknown command. type 'help' for usage.")
		}
	}
}

func (s *session) promptIdentity(state app.State) (string, bool, error) {
	if state.Username != "" {
		fmt.Fprintf(s.out, "\nName [%s]: ", state.Username)
	} else {
		fmt.Fprint(s.out, "\nName: ")
	}
	name, err := s.readLine()
	if err != nil {
		return "", false, err
	}
	if strings.TrimSpace(name) == "" {
		name = state.Username
	}

	prompt := "Remember me on this machine? (yes/no): "
	if state.Remember {
		prompt = "Keep remembering you? (yes/no): "
	}
	remember, err := s.promptYesNo(prompt)
	if err != nil {
		return "", false, err
	}
	return name, remember, nil
}

// getAnswer returns ok=false for a blank line or after repeated bad input.
func (s *session) getAnswer(optionCount int) (int, bool, error) {
	if optionCount < 1 {
		return -1, false, nil
	}

	maxLetter := byte('A' + optionCount - 1)

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		fmt.Fprintf(s.out, "Your answer (A-%c, Enter to skip): ", maxLetter)
		line, err := s.readLine()
		if err != nil {
			return -1, false, err
		}
		if strings.TrimSpace(line) == "" {
			return -1, false, nil
		}

		index := quiz.LetterIndex(line)
		if index >= 0 && index < optionCount {
			return index, true, nil
		}

		if attempt < maxAttempts {
			fmt.Fprintf(s.out, "Invalid input. Please enter a letter A-%c.\n", maxLetter)
		}
	}

	return -1, false, nil
}

func (s *session) promptYesNo(prompt string) (bool, error) {
	for {
		fmt.Fprint(s.out, prompt)
		line, err := s.readLine()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		default:
			fmt.Fprintln(s.out, "Please answer yes or no.")
		}
	}
}

func (s *session) readLine() (string, error) {
	line, err := s.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(s.out)
			return "", errQuit
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func ignoreQuit(err error) error {
	if errors.Is(err, errQuit) {
		return nil
	}
	return err
}
