package app

import (
	"sync"
	"time"

	"github.com/Miles-coder2000/BrainMaster-Quiz-App/internal/domain"
)

const (
	defaultQuestionLimit   = 10
	defaultTimePerQuestion = 15
	defaultStartingLives   = 3
	defaultRevealDelay     = 700 * time.Millisecond
	extraTimeBonus         = 10
)

// scheduleFunc runs f after d and returns a cancel function. The default is
// time.AfterFunc; tests substitute a synchronous scheduler.
type scheduleFunc func(d time.Duration, f func()) func()

func afterFuncSchedule(d time.Duration, f func()) func() {
	t := time.AfterFunc(d, f)
	return func() { t.Stop() }
}

// Session owns the state of one quiz run. All transitions are serialized by
// a single mutex: the per-second tick and user input are the only event
// sources and never overlap inside the state.
type Session struct {
	userID      string
	cfg         domain.SessionConfig
	revealDelay time.Duration
	schedule    scheduleFunc

	mu           sync.Mutex
	questions    []domain.Question
	phase        domain.Phase
	index        int
	score        int
	lives        int
	streak       int
	timeLeft     int
	selected     string
	answered     bool
	used         map[domain.PowerUp]bool
	result       *domain.SessionResult
	cancelReveal func()
	abandoned    bool
	subscribers  map[chan domain.SessionView]struct{}

	done     chan struct{}
	doneOnce sync.Once
}

// NewSession builds a session over an already selected and shuffled question
// sequence. The caller (QuizService) is responsible for the bank query and
// randomization; an empty sequence is rejected there, never here.
func NewSession(userID string, questions []domain.Question, cfg domain.SessionConfig) *Session {
	return newSession(userID, questions, cfg, afterFuncSchedule, defaultRevealDelay)
}

// NewSessionSynchronous is test-only: reveal delays elapse immediately so
// Answer/Advance sequences are deterministic.
func NewSessionSynchronous(userID string, questions []domain.Question, cfg domain.SessionConfig) *Session {
	return newSession(userID, questions, cfg, func(_ time.Duration, f func()) func() {
		f()
		return func() {}
	}, 0)
}

func newSession(userID string, questions []domain.Question, cfg domain.SessionConfig, schedule scheduleFunc, revealDelay time.Duration) *Session {
	if cfg.TimePerQuestion <= 0 {
		cfg.TimePerQuestion = defaultTimePerQuestion
	}
	if cfg.StartingLives <= 0 {
		cfg.StartingLives = defaultStartingLives
	}
	return &Session{
		userID:      userID,
		cfg:         cfg,
		revealDelay: revealDelay,
		schedule:    schedule,
		questions:   questions,
		phase:       domain.PhaseInitializing,
		lives:       cfg.StartingLives,
		used:        make(map[domain.PowerUp]bool),
		subscribers: make(map[chan domain.SessionView]struct{}),
		done:        make(chan struct{}),
	}
}

// UserID identifies the session owner.
func (s *Session) UserID() string { return s.userID }

// Begin moves the session from initializing to the first active question,
// honoring resume state when present. Resume indices are trusted as supplied.
func (s *Session) Begin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != domain.PhaseInitializing {
		return
	}
	if r := s.cfg.Resume; r != nil {
		s.index = r.Index
		s.score = r.Score
	}
	s.timeLeft = s.cfg.TimePerQuestion
	s.phase = domain.PhaseActive
	s.broadcastLocked()
}

// StartClock drives Tick at the given interval until the session finishes or
// is abandoned. The production interval is one second.
func (s *Session) StartClock(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Tick()
			case <-s.done:
				return
			}
		}
	}()
}

// Tick decrements the countdown while the question is active. Expiry with no
// selection is a synthetic wrong answer.
func (s *Session) Tick() {
	s.mu.Lock()
	if s.phase != domain.PhaseActive || s.abandoned {
		s.mu.Unlock()
		return
	}
	s.timeLeft--
	if s.timeLeft > 0 {
		s.broadcastLocked()
		s.mu.Unlock()
		return
	}
	s.timeLeft = 0
	answered := s.answerLocked("")
	s.mu.Unlock()
	if answered {
		s.afterAnswer()
	}
}

// Answer records the user's selection for the current question. A second
// answer for the same question, or input outside the active phase, is a
// silent no-op.
func (s *Session) Answer(option string) {
	s.mu.Lock()
	answered := s.answerLocked(option)
	s.mu.Unlock()
	if answered {
		s.afterAnswer()
	}
}

func (s *Session) answerLocked(option string) bool {
	if s.phase != domain.PhaseActive || s.answered || s.abandoned {
		return false
	}
	s.answered = true
	s.selected = option
	if option != "" && option == s.questions[s.index].Correct {
		s.score++
		s.streak++
	} else {
		s.lives--
		s.streak = 0
	}
	s.phase = domain.PhaseRevealing
	s.broadcastLocked()
	return true
}

// afterAnswer schedules Advance once the reveal delay elapses. Scheduling
// happens outside the mutex so a synchronous test scheduler can re-enter.
func (s *Session) afterAnswer() {
	cancel := s.schedule(s.revealDelay, s.Advance)
	s.mu.Lock()
	if s.phase == domain.PhaseRevealing {
		s.cancelReveal = cancel
	} else {
		cancel()
	}
	s.mu.Unlock()
}

// Advance moves to the next question, or finishes the run when the questions
// or lives are exhausted. The score increment from Answer is already applied
// before the finish check, so the final question is never undercounted.
func (s *Session) Advance() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advanceLocked()
}

func (s *Session) advanceLocked() {
	if s.phase != domain.PhaseRevealing {
		return
	}
	if s.cancelReveal != nil {
		s.cancelReveal()
		s.cancelReveal = nil
	}
	if s.index+1 < len(s.questions) && s.lives > 0 {
		s.index++
		s.answered = false
		s.selected = ""
		s.timeLeft = s.cfg.TimePerQuestion
		s.phase = domain.PhaseActive
		s.broadcastLocked()
		return
	}
	s.finishLocked()
}

func (s *Session) finishLocked() {
	if s.result != nil {
		return
	}
	s.phase = domain.PhaseFinished
	s.result = &domain.SessionResult{
		Score:      s.score,
		Total:      len(s.questions),
		Category:   s.cfg.Category,
		Difficulty: s.cfg.Difficulty,
	}
	s.broadcastLocked()
	s.doneOnce.Do(func() { close(s.done) })
}

// UseHint reveals the first character of the correct answer. Usable once per
// session and only before answering the current question.
func (s *Session) UseHint() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != domain.PhaseActive || s.answered || s.abandoned || s.used[domain.PowerUpHint] {
		return "", false
	}
	s.used[domain.PowerUpHint] = true
	correct := []rune(s.questions[s.index].Correct)
	if len(correct) == 0 {
		return "", true
	}
	return string(correct[0]), true
}

// UseExtraTime adds a fixed bonus to the countdown, once per session.
func (s *Session) UseExtraTime() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != domain.PhaseActive || s.abandoned || s.used[domain.PowerUpExtraTime] {
		return false
	}
	s.used[domain.PowerUpExtraTime] = true
	s.timeLeft += extraTimeBonus
	s.broadcastLocked()
	return true
}

// UseSkip counts the current question as answered correctly without a
// selection and advances immediately, once per session.
func (s *Session) UseSkip() bool {
	s.mu.Lock()
	if s.phase != domain.PhaseActive || s.answered || s.abandoned || s.used[domain.PowerUpSkip] {
		s.mu.Unlock()
		return false
	}
	s.used[domain.PowerUpSkip] = true
	s.answered = true
	s.score++
	s.streak++
	s.phase = domain.PhaseRevealing
	s.advanceLocked()
	s.mu.Unlock()
	return true
}

// Abandon cancels the run before completion. Nothing is persisted and no
// result is produced; the pending reveal timer is stopped.
func (s *Session) Abandon() {
	s.mu.Lock()
	if s.phase == domain.PhaseFinished || s.abandoned {
		s.mu.Unlock()
		return
	}
	s.abandoned = true
	if s.cancelReveal != nil {
		s.cancelReveal()
		s.cancelReveal = nil
	}
	s.mu.Unlock()
	s.doneOnce.Do(func() { close(s.done) })
}

// Result returns the terminal outcome once the session has finished.
func (s *Session) Result() (domain.SessionResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return domain.SessionResult{}, false
	}
	return *s.result, true
}

// Done is closed when the session finishes or is abandoned.
func (s *Session) Done() <-chan struct{} { return s.done }

// View returns a snapshot of the current state.
func (s *Session) View() domain.SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// Subscribe returns a channel of state snapshots. The caller must invoke the
// returned cancel function to avoid leaks.
func (s *Session) Subscribe() (<-chan domain.SessionView, func()) {
	ch := make(chan domain.SessionView, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	initial := s.viewLocked()
	s.mu.Unlock()

	ch <- initial

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Session) broadcastLocked() {
	view := s.viewLocked()
	for ch := range s.subscribers {
		select {
		case ch <- view:
		default:
			// Drop the stale snapshot so a slow client never blocks ticks.
			select {
			case <-ch:
			default:
			}
			ch <- view
		}
	}
}

func (s *Session) viewLocked() domain.SessionView {
	view := domain.SessionView{
		Phase:         s.phase,
		Index:         s.index,
		Total:         len(s.questions),
		TimeRemaining: s.timeLeft,
		Lives:         s.lives,
		Streak:        s.streak,
		Score:         s.score,
		Selected:      s.selected,
	}
	if s.index < len(s.questions) {
		view.Question = s.questions[s.index].View()
		if s.phase == domain.PhaseRevealing || s.phase == domain.PhaseFinished {
			view.Correct = s.questions[s.index].Correct
		}
	}
	for _, p := range []domain.PowerUp{domain.PowerUpHint, domain.PowerUpExtraTime, domain.PowerUpSkip} {
		if s.used[p] {
			view.PowerUpsUsed = append(view.PowerUpsUsed, p)
		}
	}
	return view
}
