// Package web serves the quiz as a server-rendered HTML form, with a JSON
// scoreboard endpoint and a websocket feed of scoreboard updates.
package web

import (
	"html/template"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"trivia-app/internal/app"
	"trivia-app/internal/scores"
)

const (
	cookieName       = "triviaUsername"
	defaultCookieTTL = 30 * 24 * time.Hour
)

type Options struct {
	CookieTTL      time.Duration
	AllowedOrigins []string
	Clock          scores.Clock
}

type Server struct {
	Router     *mux.Router
	controller *app.Controller
	page       *template.Template
	hub        *hub
	cookieTTL  time.Duration
	clock      scores.Clock
}

func NewServer(controller *app.Controller, opts Options) *Server {
	if opts.CookieTTL <= 0 {
		opts.CookieTTL = defaultCookieTTL
	}
	if opts.Clock == nil {
		opts.Clock = scores.SystemClock
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	s := &Server{
		Router:     mux.NewRouter(),
		controller: controller,
		page:       pageTemplate,
		hub:        newHub(opts.AllowedOrigins),
		cookieTTL:  opts.CookieTTL,
		clock:      opts.Clock,
	}
	controller.Subscribe(func(state app.State) {
		s.hub.broadcast(state.View)
	})

	s.Router.HandleFunc("/", s.handlePage).Methods(http.MethodGet)
	s.Router.HandleFunc("/submit", s.handleSubmit).Methods(http.MethodPost)
	s.Router.HandleFunc("/new", s.handleNewPlayer).Methods(http.MethodPost)
	s.Router.HandleFunc("/clear", s.handleClear).Methods(http.MethodPost)
	s.Router.HandleFunc("/forget", s.handleForget).Methods(http.MethodPost)
	s.Router.HandleFunc("/preferences", s.handlePreferences).Methods(http.MethodPost)
	s.Router.HandleFunc("/ws/scores", s.handleScoresFeed).Methods(http.MethodGet)
	s.Router.HandleFunc("/health", handleHealth).Methods(http.MethodGet)

	api := s.Router.PathPrefix("/api").Subrouter()
	api.Use(cors.New(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler)
	api.HandleFunc("/scores", s.handleScores).Methods(http.MethodGet, http.MethodOptions)

	return s
}

// Handler returns the router wrapped in request logging.
func (s *Server) Handler() http.Handler {
	return withRequestLogging(s.Router)
}
