// ABOUTME: Workout session engine: countdown, exercise and rest phases driven by a one-second timer.
// ABOUTME: Handles pause, resume, skips, cancel, audio-cue hooks and completion.
package session

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind is the type of the current phase.
type Kind int

const (
	KindCountdown Kind = iota
	KindExercise
	KindRest
	KindCompleted
)

func (k Kind) String() string {
	switch k {
	case KindCountdown:
		return "countdown"
	case KindExercise:
		return "exercise"
	case KindRest:
		return "rest"
	case KindCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Outcome says how a session ended, if it has.
type Outcome int

const (
	Running Outcome = iota
	Completed
	Cancelled
)

func (o Outcome) String() string {
	switch o {
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Snapshot is the observable state of a session.
type Snapshot struct {
	SessionID uuid.UUID `json:"session_id"`
	Kind      Kind      `json:"kind"`
	// Index is the exercise index. During Rest it is the exercise just finished.
	Index    int     `json:"index"`
	TimeLeft int     `json:"time_left"`
	Duration int     `json:"duration"`
	Fraction float64 `json:"fraction"`
	Playing  bool    `json:"playing"`
}

// Completion is reported once when the last exercise ends.
type Completion struct {
	SessionID     uuid.UUID `json:"session_id"`
	WorkoutID     int64     `json:"workout_id"`
	TotalSeconds  int       `json:"total_seconds"`
	ExerciseCount int       `json:"exercise_count"`
	// Durations holds each exercise's planned seconds in play order.
	Durations     []int     `json:"durations"`
}

// Hooks are optional side-effect callbacks.
//
// OnTick fires each second the time left lands in [1,5). OnPhaseComplete
// fires once when a phase reaches zero. OnSessionComplete fires after the
// last exercise's phase-complete.
type Hooks struct {
	OnTick            func(Snapshot)
	OnPhaseComplete   func(Snapshot)
	OnSessionComplete func(Completion)
}

// Option configures a Session.
type Option func(*Session)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(s *Session) { s.clock = c }
}

// WithLogger sets the logger used for phase transitions.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithHooks installs cue and completion callbacks.
func WithHooks(h Hooks) Option {
	return func(s *Session) { s.hooks = h }
}

// Session plays one Plan. All methods are safe for concurrent use.
//
// Hooks and subscriber callbacks run synchronously while the session is
// locked, in the order the changes happened. They must not call methods on
// the Session.
type Session struct {
	mu    sync.Mutex
	id    uuid.UUID
	plan  Plan
	clock Clock
	log   *slog.Logger
	hooks Hooks

	kind     Kind
	index    int
	timeLeft int
	playing  bool
	outcome  Outcome

	// carry is elapsed time inside the current second not yet counted;
	// while playing, time since mark is added on top of it.
	carry time.Duration
	mark  time.Time
	timer Timer
	// gen invalidates timer callbacks scheduled before the latest change.
	gen uint64

	subs    map[int]func(Snapshot)
	nextSub int
	done    chan struct{}
	stopCtx func() bool
}

// Start validates plan and begins the countdown. The session is cancelled
// when ctx is done.
func Start(ctx context.Context, plan Plan, opts ...Option) (*Session, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	s := &Session{
		id:    uuid.New(),
		plan:  plan,
		clock: RealClock(),
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		subs:  make(map[int]func(Snapshot)),
		done:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.enter(KindCountdown, 0, true)
	s.startClock()
	if ctx != nil {
		s.stopCtx = context.AfterFunc(ctx, s.Cancel)
	}
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// Plan returns the plan this session plays; pass it to Start to restart.
func (s *Session) Plan() Plan { return s.plan }

// Done is closed when the session completes or is cancelled.
func (s *Session) Done() <-chan struct{} { return s.done }

// Outcome reports whether the session is running, completed or cancelled.
func (s *Session) Outcome() Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcome
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Subscribe registers fn for every state change and calls it once with the
// current state. The returned func unregisters it.
func (s *Session) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	fn(s.snapshot())

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Pause stops the current phase's timer. Pausing while paused does nothing.
func (s *Session) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.outcome != Running {
		return ErrSessionEnded
	}
	if s.kind == KindCountdown {
		return ErrCountdown
	}
	if !s.playing {
		return nil
	}
	s.stopClock()
	s.playing = false
	s.notify()
	return nil
}

// Resume continues the current phase from where it was paused. It never
// restarts the countdown.
func (s *Session) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.outcome != Running {
		return ErrSessionEnded
	}
	if s.playing {
		return nil
	}
	s.playing = true
	s.startClock()
	s.notify()
	return nil
}

// Toggle pauses a playing session and resumes a paused one.
func (s *Session) Toggle() error {
	s.mu.Lock()
	playing := s.playing
	s.mu.Unlock()
	if playing {
		return s.Pause()
	}
	return s.Resume()
}

// SkipNext jumps to the next exercise at full duration, skipping any rest.
// The session is left paused.
func (s *Session) SkipNext() error {
	return s.jump(1, ErrNoNext)
}

// SkipPrevious jumps to the previous exercise at full duration. The session
// is left paused.
func (s *Session) SkipPrevious() error {
	return s.jump(-1, ErrNoPrevious)
}

func (s *Session) jump(delta int, errNone error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.outcome != Running {
		return ErrSessionEnded
	}
	if s.kind == KindCountdown {
		return ErrCountdown
	}
	target := s.index + delta
	if target < 0 || target >= len(s.plan.Steps) {
		return errNone
	}

	s.stopClock()
	s.carry = 0
	s.enter(KindExercise, target, false)
	return nil
}

// Cancel stops the session without completing it. No further callbacks
// fire. Calling Cancel again does nothing.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.outcome != Running {
		return
	}
	s.stopClock()
	s.playing = false
	s.outcome = Cancelled
	s.finish()
	s.log.Debug("session cancelled", "session", s.id, "phase", s.kind, "index", s.index)
}

// enter starts a phase at full duration. Caller holds mu.
func (s *Session) enter(kind Kind, index int, playing bool) {
	s.kind = kind
	s.index = index
	s.timeLeft = s.phaseDuration()
	s.playing = playing
	s.log.Debug("phase started", "session", s.id, "phase", kind, "index", index, "duration", s.timeLeft)
	s.notify()
}

func (s *Session) phaseDuration() int {
	switch s.kind {
	case KindCountdown:
		return CountdownSeconds
	case KindExercise:
		return s.plan.Steps[s.index].Duration
	case KindRest:
		return s.plan.Rest
	default:
		return 0
	}
}

func (s *Session) startClock() {
	s.mark = s.clock.Now()
	s.schedule()
}

func (s *Session) schedule() {
	s.gen++
	gen := s.gen
	s.timer = s.clock.AfterFunc(time.Second-s.carry, func() { s.fire(gen) })
}

// stopClock banks the partial second and invalidates the pending timer.
func (s *Session) stopClock() {
	if s.playing {
		s.carry += s.clock.Now().Sub(s.mark)
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
}

// fire counts every whole second elapsed since the last count, so a late
// timer catches up with the wall clock instead of drifting.
func (s *Session) fire(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen || !s.playing || s.outcome != Running {
		return
	}
	now := s.clock.Now()
	s.carry += now.Sub(s.mark)
	s.mark = now

	for s.carry >= time.Second && s.playing && s.outcome == Running {
		s.carry -= time.Second
		s.step()
	}
	if s.outcome == Running && s.playing {
		s.schedule()
	}
}

// step counts down one second and moves on when the phase hits zero.
func (s *Session) step() {
	s.timeLeft--
	if s.timeLeft >= 1 && s.timeLeft < 5 && s.hooks.OnTick != nil {
		s.hooks.OnTick(s.snapshot())
	}
	if s.timeLeft > 0 {
		s.notify()
		return
	}

	if s.hooks.OnPhaseComplete != nil {
		s.hooks.OnPhaseComplete(s.snapshot())
	}

	last := len(s.plan.Steps) - 1
	switch s.kind {
	case KindCountdown:
		s.enter(KindExercise, 0, true)
	case KindExercise:
		switch {
		case s.index == last:
			s.complete()
		case s.plan.Rest > 0:
			s.enter(KindRest, s.index, true)
		default:
			s.enter(KindExercise, s.index+1, true)
		}
	case KindRest:
		s.enter(KindExercise, s.index+1, true)
	}
}

func (s *Session) complete() {
	s.stopClock()
	s.carry = 0
	s.kind = KindCompleted
	s.timeLeft = 0
	s.playing = false
	s.outcome = Completed
	s.log.Debug("session completed", "session", s.id, "workout", s.plan.WorkoutID)
	s.notify()

	if s.hooks.OnSessionComplete != nil {
		durations := make([]int, len(s.plan.Steps))
		for i, step := range s.plan.Steps {
			durations[i] = step.Duration
		}
		s.hooks.OnSessionComplete(Completion{
			SessionID:     s.id,
			WorkoutID:     s.plan.WorkoutID,
			TotalSeconds:  s.plan.TotalSeconds(),
			ExerciseCount: len(s.plan.Steps),
			Durations:     durations,
		})
	}
	s.finish()
}

func (s *Session) finish() {
	close(s.done)
	if s.stopCtx != nil {
		s.stopCtx()
	}
}

func (s *Session) notify() {
	if len(s.subs) == 0 {
		return
	}
	snap := s.snapshot()
	for _, fn := range s.subs {
		fn(snap)
	}
}

func (s *Session) snapshot() Snapshot {
	duration := s.phaseDuration()
	return Snapshot{
		SessionID: s.id,
		Kind:      s.kind,
		Index:     s.index,
		TimeLeft:  s.timeLeft,
		Duration:  duration,
		Fraction:  s.fraction(duration),
		Playing:   s.playing,
	}
}

// fraction is the share of the phase still remaining, from 1.0 at entry
// down to 0.0. It is frozen while paused.
func (s *Session) fraction(duration int) float64 {
	if s.kind == KindCompleted || duration <= 0 {
		return 0
	}
	elapsed := time.Duration(duration-s.timeLeft)*time.Second + s.carry
	if s.playing {
		elapsed += s.clock.Now().Sub(s.mark)
	}
	f := 1 - elapsed.Seconds()/float64(duration)
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}
