package app

import (
	"context"
	"log"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"trivia-app/internal/opentdb"
	"trivia-app/internal/quiz"
	"trivia-app/internal/scores"
)

const (
	defaultAmount       = 10
	defaultFetchTimeout = 15 * time.Second
)

type Fetcher interface {
	FetchQuestions(ctx context.Context, amount int) ([]opentdb.RawQuestion, error)
}

type Options struct {
	Amount int
	// Async runs question fetches in their own goroutine; results come back
	// through Dispatch. The terminal front end fetches inline.
	Async        bool
	FetchTimeout time.Duration
	Rand         quiz.Rand
	NewRound     func() string
}

type Controller struct {
	mu    sync.Mutex
	state State

	board        *scores.Board
	fetcher      Fetcher
	buildMu      sync.Mutex
	builder      *quiz.Builder
	amount       int
	async        bool
	fetchTimeout time.Duration
	newRound     func() string

	listenersMu sync.Mutex
	listeners   []func(State)
}

func New(board *scores.Board, fetcher Fetcher, opts Options) *Controller {
	if opts.Amount <= 0 {
		opts.Amount = defaultAmount
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = defaultFetchTimeout
	}
	if opts.NewRound == nil {
		opts.NewRound = uuid.NewString
	}
	return &Controller{
		state:        State{Form: quiz.NewForm(nil), Focus: -1, Sort: scores.SortNewest},
		board:        board,
		fetcher:      fetcher,
		builder:      quiz.NewBuilder(opts.Rand),
		amount:       opts.Amount,
		async:        opts.Async,
		fetchTimeout: opts.FetchTimeout,
		newRound:     opts.NewRound,
	}
}

// Subscribe registers fn to receive a snapshot after every dispatch.
func (c *Controller) Subscribe(fn func(State)) {
	c.listenersMu.Lock()
	c.listeners = append(c.listeners, fn)
	c.listenersMu.Unlock()
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Start restores preferences and kicks off the first fetch.
func (c *Controller) Start(ctx context.Context) (State, []Effect) {
	store := c.board.Store()
	return c.Dispatch(ctx, Loaded{
		Round:    c.newRound(),
		Amount:   c.amount,
		Username: store.Username(ctx),
		Remember: store.Remember(ctx),
		Sort:     store.SortMode(ctx),
		Filter:   store.Filter(ctx),
	})
}

func (c *Controller) NewPlayer(ctx context.Context) (State, []Effect) {
	return c.Dispatch(ctx, NewPlayer{Round: c.newRound(), Amount: c.amount})
}

// Clear wipes the score history; confirmed must come from the user.
func (c *Controller) Clear(ctx context.Context, confirmed bool) (State, error) {
	state, _ := c.Dispatch(ctx, ClearScores{Confirmed: confirmed})
	if !confirmed {
		return state, ErrConfirmationRequired
	}
	return state, nil
}

// Dispatch applies msg, performs the resulting effects and returns the new
// state together with the effects meant for the rendering adapter.
func (c *Controller) Dispatch(ctx context.Context, msg Msg) (State, []Effect) {
	c.mu.Lock()
	ui := c.dispatchLocked(ctx, msg)
	c.state.View = c.board.View(ctx)
	snapshot := c.state
	c.mu.Unlock()

	c.notify(snapshot)
	return snapshot, ui
}

func (c *Controller) dispatchLocked(ctx context.Context, msg Msg) []Effect {
	var ui []Effect
	queue := []Msg{msg}

	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]

		var effects []Effect
		c.state, effects = Update(c.state, next)

		for _, effect := range effects {
			switch e := effect.(type) {
			case FetchQuestions:
				if c.async {
					go c.fetchAsync(e)
					continue
				}
				queue = append(queue, c.fetch(ctx, e))
			case AppendScore:
				if _, err := c.board.Record(ctx, e.Name, e.Correct, e.Total); err != nil {
					log.Printf("[app] save score failed: %v", err)
					c.state.Alert = alertSaveFailed
					ui = append(ui, Alert{Message: alertSaveFailed})
				}
			case ClearStoredScores:
				if err := c.board.Clear(ctx); err != nil {
					log.Printf("[app] clear scores failed: %v", err)
				}
			case SavePreference:
				if err := c.board.Store().Set(ctx, e.Key, e.Value); err != nil {
					log.Printf("[app] save %s failed: %v", e.Key, err)
				}
			case DeletePreference:
				if err := c.board.Store().Delete(ctx, e.Key); err != nil {
					log.Printf("[app] delete %s failed: %v", e.Key, err)
				}
			default:
				ui = append(ui, effect)
			}
		}
	}

	return ui
}

func (c *Controller) fetch(ctx context.Context, e FetchQuestions) Msg {
	ctx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()

	raw, err := c.fetcher.FetchQuestions(ctx, e.Amount)
	if err != nil {
		log.Printf("[fetch] round %s: %v", e.Round, err)
		return QuestionsFailed{Round: e.Round, Err: err}
	}
	c.buildMu.Lock()
	questions := c.builder.BuildQuestions(raw)
	c.buildMu.Unlock()
	return QuestionsLoaded{Round: e.Round, Questions: questions}
}

func (c *Controller) fetchAsync(e FetchQuestions) {
	msg := c.fetch(context.Background(), e)
	c.Dispatch(context.Background(), msg)
}

func (c *Controller) notify(state State) {
	c.listenersMu.Lock()
	listeners := slices.Clone(c.listeners)
	c.listenersMu.Unlock()

	for _, fn := range listeners {
		fn(state)
	}
}
