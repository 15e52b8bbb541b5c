// Package unlock implements the multi-step passphrase gate in front of the
// private persona. Three ordered challenges share one attempt budget; burning
// the budget trips a terminal decoy state that outlives every later open.
package unlock

import (
	"strings"
	"sync"
)

// MaxAttempts is the shared budget across the whole challenge sequence, not
// per step.
const MaxAttempts = 3

// ChallengeKind tells the presentation layer which input to render.
type ChallengeKind string

const (
	KindDate       ChallengeKind = "date"
	KindPassphrase ChallengeKind = "passphrase"
)

// Challenge is one step of the sequence. Answers are compared exactly for
// dates (dd/mm/yyyy) and trim/case-insensitively for passphrases.
type Challenge struct {
	Kind   ChallengeKind `json:"kind"`
	Title  string        `json:"title"`
	Prompt string        `json:"prompt"`
	answer string
}

func (c Challenge) matches(input string) bool {
	if c.Kind == KindPassphrase {
		return strings.EqualFold(strings.TrimSpace(input), c.answer)
	}
	return input == c.answer
}

// DefaultChallenges is the production sequence.
func DefaultChallenges() []Challenge {
	return []Challenge{
		{Kind: KindDate, Title: "Enter Special Code", Prompt: "Please select the correct date to proceed.", answer: "09/09/2006"},
		{Kind: KindPassphrase, Title: "Identity Verification", Prompt: "Enter Your Name", answer: "jiya"},
		{Kind: KindDate, Title: "Enter Special Code", Prompt: "Please select the correct date to proceed.", answer: "23/07/2003"},
	}
}

// Outcome classifies the result of a submission.
type Outcome string

const (
	// OutcomeAdvanced means the step matched and the gate moved forward.
	OutcomeAdvanced Outcome = "advanced"
	// OutcomeSuccess means the final step matched; the success callback ran.
	OutcomeSuccess Outcome = "success"
	// OutcomeDenied means a mismatch with budget remaining.
	OutcomeDenied Outcome = "denied"
	// OutcomeRevealed means the mismatch exhausted the budget; the gate is
	// now permanently in decoy mode for this process.
	OutcomeRevealed Outcome = "revealed"
	// OutcomeRejected means the input was not evaluated at all (gate closed
	// or already revealed).
	OutcomeRejected Outcome = "rejected"
)

// Result carries the outcome plus what the UI needs to render next.
type Result struct {
	Outcome      Outcome `json:"outcome"`
	StepIndex    int     `json:"stepIndex"`
	AttemptsLeft int     `json:"attemptsLeft"`
}

// Gate is the attempt tracker. State transitions happen under the gate lock;
// the callbacks they trigger run after it is released, so they are free to
// call back into the gate or into code that reads it.
type Gate struct {
	mu        sync.Mutex
	steps     []Challenge
	stepIndex int
	attempts  int
	open      bool
	revealed  bool
	onSuccess func()
	onReveal  func()
}

// NewGate builds a gate over steps. onSuccess runs exactly once per completed
// sequence; onReveal exactly once ever. Both run outside the gate lock.
func NewGate(steps []Challenge, onSuccess, onReveal func()) *Gate {
	return &Gate{steps: steps, onSuccess: onSuccess, onReveal: onReveal}
}

// Open starts a fresh attempt session: step index and attempt counter reset.
// Opening after reveal is ignored; reveal never resets here or anywhere else.
func (g *Gate) Open() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.revealed {
		return false
	}
	g.stepIndex = 0
	g.attempts = 0
	g.open = true
	return true
}

// Close dismisses the gate without touching the reveal state.
func (g *Gate) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.open = false
}

// Revealed reports whether the decoy state has been reached.
func (g *Gate) Revealed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.revealed
}

// Current returns the active challenge and attempts left, or ok=false when
// the gate is not accepting input.
func (g *Gate) Current() (Challenge, int, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.open || g.revealed || g.stepIndex >= len(g.steps) {
		return Challenge{}, 0, false
	}
	return g.steps[g.stepIndex], MaxAttempts - g.attempts, true
}

// Submit evaluates input against the current step. Once revealed, input is
// rejected without evaluation. The callback for a triggered transition fires
// after the gate lock is released; holding it across the call would invert
// lock order against callers that read the gate under their own lock.
func (g *Gate) Submit(input string) Result {
	res, fire := g.advance(input)
	if fire != nil {
		fire()
	}
	return res
}

func (g *Gate) advance(input string) (Result, func()) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.revealed || !g.open {
		return Result{Outcome: OutcomeRejected, StepIndex: g.stepIndex, AttemptsLeft: MaxAttempts - g.attempts}, nil
	}

	if g.steps[g.stepIndex].matches(input) {
		g.stepIndex++
		if g.stepIndex < len(g.steps) {
			return Result{Outcome: OutcomeAdvanced, StepIndex: g.stepIndex, AttemptsLeft: MaxAttempts - g.attempts}, nil
		}
		g.open = false
		g.stepIndex = 0
		g.attempts = 0
		return Result{Outcome: OutcomeSuccess, AttemptsLeft: MaxAttempts}, g.onSuccess
	}

	g.attempts++
	if g.attempts >= MaxAttempts {
		g.open = false
		g.revealed = true
		return Result{Outcome: OutcomeRevealed, StepIndex: g.stepIndex}, g.onReveal
	}
	return Result{Outcome: OutcomeDenied, StepIndex: g.stepIndex, AttemptsLeft: MaxAttempts - g.attempts}, nil
}
