package main

import (
	"context"
	"strings"
	"sync"
	"time"
)

// GameState tracks where the orchestrator is in the question cycle.
type GameState int

const (
	StateWaitingForPlayers GameState = iota
	StateQuestionOpen
	StateBuzzWindowOpen
	StateCandidateAnswering
	StateQuestionResolved
	StateGameOver
)

func (s GameState) String() string {
	switch s {
	case StateWaitingForPlayers:
		return "waiting_for_players"
	case StateQuestionOpen:
		return "question_open"
	case StateBuzzWindowOpen:
		return "buzz_window_open"
	case StateCandidateAnswering:
		return "candidate_answering"
	case StateQuestionResolved:
		return "question_resolved"
	case StateGameOver:
		return "game_over"
	}
	return "unknown"
}

// Game drives the question cycle from a single goroutine: open a buzz
// window, drain the arbiter one candidate at a time, enforce each answer
// window, and settle scores. All game-affecting decisions are serialized
// here; the sessions, arbiter, and scoreboard only feed it.
type Game struct {
	cfg      *Config
	bank     *QuestionBank
	scores   *Scoreboard
	arbiter  *BuzzArbiter
	registry *Registry

	mu      sync.Mutex
	state   GameState
	current *Question
}

func newGame(cfg *Config, bank *QuestionBank, scores *Scoreboard, arbiter *BuzzArbiter, registry *Registry) *Game {
	return &Game{
		cfg:      cfg,
		bank:     bank,
		scores:   scores,
		arbiter:  arbiter,
		registry: registry,
	}
}

// State returns the orchestrator's current phase.
func (g *Game) State() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.state
}

func (g *Game) setState(state GameState) {
	g.mu.Lock()
	g.state = state
	g.mu.Unlock()

	logf(g.cfg, "GAME: State %s", state)
}

// CurrentQuestion returns the in-flight question, if any, so late joiners
// can be caught up on connect.
func (g *Game) CurrentQuestion() (Question, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.current == nil {
		return Question{}, false
	}
	return *g.current, true
}

func (g *Game) setCurrent(q Question) {
	g.mu.Lock()
	g.current = &q
	g.mu.Unlock()
}

// Run plays the whole game: an initial lobby wait, then one cycle per
// question until the bank runs dry. It blocks and sleeps deliberately;
// pacing is the game. Cancelling ctx stops the game between waits and
// tells every client to disconnect.
func (g *Game) Run(ctx context.Context) {
	g.setState(StateWaitingForPlayers)
	if !sleepCtx(ctx, g.cfg.lobbyWait) {
		g.shutdown()
		return
	}

	for {
		g.setState(StateQuestionOpen)

		question, ok := g.bank.Next()
		if !ok {
			g.endGame()
			return
		}
		g.setCurrent(question)

		logf(g.cfg, "GAME: Question %d of %d: %s", question.Number, g.bank.Len(), question.Text)

		// Eligibility first, so clients enable their buzzers before the
		// question lands.
		g.registry.Broadcast(SimpleMessage{Type: typeEligibility})
		g.registry.Broadcast(QuestionMessage{
			Type:    typeQuestion,
			Number:  question.Number,
			Text:    question.Text,
			Options: question.Options,
		})

		g.arbiter.Reset()
		g.setState(StateBuzzWindowOpen)

		// The wait itself is the window: no early exit on first buzz, all
		// contenders queue up and are served in arrival order afterward.
		if !sleepCtx(ctx, g.cfg.buzzWindow) {
			g.shutdown()
			return
		}

		if !g.runCandidates(ctx, question) {
			g.shutdown()
			return
		}

		g.setState(StateQuestionResolved)
		if !sleepCtx(ctx, g.cfg.questionPause) {
			g.shutdown()
			return
		}
	}
}

// runCandidates drains the buzz queue for one question, giving each
// candidate in turn an exclusive answer window until someone answers
// correctly or the queue empties. Returns false if ctx was cancelled.
func (g *Game) runCandidates(ctx context.Context, question Question) bool {
	for {
		clientID, ok := g.arbiter.Next()
		if !ok {
			return true
		}

		candidate := g.registry.Get(clientID)
		if candidate == nil {
			logf(g.cfg, "GAME: Skipping departed candidate %d", clientID)
			continue
		}

		g.setState(StateCandidateAnswering)
		logf(g.cfg, "GAME: Client %d is answering question %d", clientID, question.Number)

		if err := candidate.Send(SimpleMessage{Type: typeAck}); err != nil {
			g.registry.Remove(clientID)
			continue
		}
		for _, session := range g.registry.Sessions() {
			if session.id == clientID {
				continue
			}
			if err := session.Send(SimpleMessage{Type: typeNack}); err != nil {
				g.registry.Remove(session.id)
			}
		}

		candidate.ClearAnswer()

		answer, answered, departed := g.awaitAnswer(ctx, candidate)
		if ctx.Err() != nil {
			return false
		}

		correct := false
		switch {
		case departed:
			// No penalty: the candidate is already gone.
			logf(g.cfg, "GAME: Candidate %d departed mid-turn", clientID)
		case answered:
			correct = g.checkAnswer(question, answer)
			if correct {
				score, _ := g.scores.Adjust(clientID, deltaCorrect)
				logf(g.cfg, "GAME: Client %d answered correctly, score now %d", clientID, score)
				_ = candidate.Send(SimpleMessage{Type: typeCorrect})
			} else {
				score, _ := g.scores.Adjust(clientID, deltaWrong)
				logf(g.cfg, "GAME: Client %d answered wrong, score now %d", clientID, score)
				_ = candidate.Send(SimpleMessage{Type: typeWrong})
			}
		default:
			score, _ := g.scores.Adjust(clientID, deltaTimeout)
			logf(g.cfg, "GAME: Client %d timed out, score now %d", clientID, score)
			_ = candidate.Send(SimpleMessage{Type: typeTimeout})
		}

		candidate.ClearAnswer()

		g.registry.Broadcast(ScoreUpdateMessage{
			Type:   typeScoreUpdate,
			Scores: g.scores.Snapshot(),
		})

		if correct {
			return true
		}
	}
}

// awaitAnswer polls the candidate's mailbox at the configured interval
// until an answer shows up or the answer window closes. The poll interval
// bounds how stale the check can be; it is configured well under the
// window length. departed is set if the candidate's session vanished
// mid-window.
func (g *Game) awaitAnswer(ctx context.Context, candidate *Session) (answer Answer, answered bool, departed bool) {
	deadline := time.Now().Add(g.cfg.answerWindow)

	for {
		if a, ok := candidate.TakeAnswer(); ok {
			return a, true, false
		}
		if g.registry.Get(candidate.id) == nil {
			return Answer{}, false, true
		}
		if time.Now().After(deadline) {
			return Answer{}, false, false
		}
		if !sleepCtx(ctx, g.cfg.answerPoll) {
			return Answer{}, false, false
		}
	}
}

// checkAnswer validates a submission against the bank. A submission for a
// question the bank never held counts as wrong.
func (g *Game) checkAnswer(current Question, answer Answer) bool {
	question, ok := g.bank.Lookup(answer.Question)
	if !ok {
		return false
	}
	if question.Number != current.Number {
		// Stale submission for an earlier question.
		return false
	}
	return strings.EqualFold(answer.Option, question.Answer)
}

// endGame announces the final scores and halts the orchestrator. Exactly
// one game_over is sent per connected client.
func (g *Game) endGame() {
	g.setState(StateGameOver)
	g.arbiter.Reset()

	g.registry.Broadcast(SimpleMessage{Type: typeGameOver})

	logf(g.cfg, "GAME: Game over, final scores:")
	for id, score := range g.scores.Snapshot() {
		logf(g.cfg, "GAME:   Client %d: %d points", id, score)
	}
}

// shutdown is the cancellation path: tell every client to disconnect.
func (g *Game) shutdown() {
	g.setState(StateGameOver)
	g.registry.Broadcast(SimpleMessage{Type: typeKillClient})
}

// sleepCtx sleeps for d, returning false early if ctx is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
