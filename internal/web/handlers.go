package web

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"trivia-app/internal/app"
	"trivia-app/internal/quiz"
	"trivia-app/internal/scores"
)

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, false)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	round := strings.TrimSpace(r.PostForm.Get("round"))
	if round == "" {
		http.Error(w, "missing round", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	current := s.controller.State()
	if current.Phase == app.PhaseReady && round == current.Round {
		// The posted form is the whole answer sheet: a question without a
		// value is unanswered even if it was answered on an earlier post.
		for idx := 0; idx < current.Form.Len(); idx++ {
			value := strings.TrimSpace(r.PostForm.Get(quiz.FieldName(idx)))
			if value == "" {
				if current.Form.State(idx) == quiz.Answered {
					s.controller.Dispatch(ctx, app.Deselect{Round: round, Question: idx})
				}
				continue
			}
			option, err := strconv.Atoi(value)
			if err != nil {
				option = -1
			}
			s.controller.Dispatch(ctx, app.Select{Round: round, Question: idx, Option: option})
		}
	}

	remember := formBool(r.PostForm.Get("remember"))
	state, _ := s.controller.Dispatch(ctx, app.Submit{
		Round:    round,
		Name:     r.PostForm.Get("name"),
		Remember: remember,
	})

	status := http.StatusOK
	switch {
	case round != state.Round:
		status = http.StatusConflict
	case state.Phase == app.PhaseSubmitted:
		if remember {
			s.setNameCookie(w, state.Username)
		} else {
			s.expireNameCookie(w)
		}
	default:
		status = http.StatusUnprocessableEntity
	}
	s.render(w, r, status, true)
}

func (s *Server) handleNewPlayer(w http.ResponseWriter, r *http.Request) {
	s.controller.NewPlayer(r.Context())
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	confirmed := formBool(r.FormValue("confirm"))
	if _, err := s.controller.Clear(r.Context(), confirmed); err != nil {
		if errors.Is(err, app.ErrConfirmationRequired) {
			s.render(w, r, http.StatusBadRequest, true)
			return
		}
		log.Printf("[web] clear scores: %v", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleForget(w http.ResponseWriter, r *http.Request) {
	s.controller.Dispatch(r.Context(), app.ForgetMe{})
	s.expireNameCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handlePreferences(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	current := s.controller.State()
	if mode := strings.TrimSpace(r.PostForm.Get("sort")); mode != "" {
		if parsed := scores.ParseSortMode(mode); parsed != current.Sort {
			s.controller.Dispatch(ctx, app.SetSort{Mode: parsed})
		}
	}
	if _, ok := r.PostForm["filter"]; ok {
		if filter := strings.TrimSpace(r.PostForm.Get("filter")); filter != current.Filter {
			s.controller.Dispatch(ctx, app.SetFilter{Filter: filter})
		}
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.controller.State().View)
}

func (s *Server) handleScoresFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := s.hub.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[web] websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	if err := s.hub.add(conn, s.controller.State().View); err != nil {
		log.Printf("[web] websocket initial view: %v", err)
		return
	}
	defer s.hub.remove(conn)

	// The feed is push-only; reading detects the client going away.
	for {
		if _, _, err := conn.NextReader(); err != nil {
			return
		}
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, feedback bool) {
	data := newPageData(s.controller.State(), rememberedName(r), feedback)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.page.Execute(w, data); err != nil {
		log.Printf("[web] render page: %v", err)
	}
}

func formBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on", "1", "true", "yes":
		return true
	default:
		return false
	}
}
