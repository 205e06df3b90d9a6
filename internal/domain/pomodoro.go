package domain

// Phase is a pomodoro phase.
type Phase string

const (
	PhaseFocus      Phase = "focus"
	PhaseShortBreak Phase = "shortBreak"
	PhaseLongBreak  Phase = "longBreak"
)

// Phases lists the phases in tab order.
var Phases = []Phase{PhaseFocus, PhaseShortBreak, PhaseLongBreak}

// ParsePhase validates a phase name.
func ParsePhase(s string) (Phase, error) {
	for _, p := range Phases {
		if string(p) == s {
			return p, nil
		}
	}
	return "", ErrInvalidPhase
}

// IsBreak reports whether p is one of the break phases.
func (p Phase) IsBreak() bool {
	return p == PhaseShortBreak || p == PhaseLongBreak
}

// Label returns the display name of the phase.
func (p Phase) Label() string {
	switch p {
	case PhaseFocus:
		return "Focus"
	case PhaseShortBreak:
		return "Short Break"
	case PhaseLongBreak:
		return "Long Break"
	}
	return string(p)
}

// PomodoroSettings holds the configured durations in minutes.
type PomodoroSettings struct {
	FocusDuration          int `json:"focusDuration"`
	ShortBreakDuration     int `json:"shortBreakDuration"`
	LongBreakDuration      int `json:"longBreakDuration"`
	SessionsUntilLongBreak int `json:"sessionsUntilLongBreak"`
}

// DefaultPomodoroSettings returns the classic 25/5/15 every 4 setup.
func DefaultPomodoroSettings() PomodoroSettings {
	return PomodoroSettings{
		FocusDuration:          25,
		ShortBreakDuration:     5,
		LongBreakDuration:      15,
		SessionsUntilLongBreak: 4,
	}
}

// Normalize raises every field to at least 1.
func (s PomodoroSettings) Normalize() PomodoroSettings {
	s.FocusDuration = atLeastOne(s.FocusDuration)
	s.ShortBreakDuration = atLeastOne(s.ShortBreakDuration)
	s.LongBreakDuration = atLeastOne(s.LongBreakDuration)
	s.SessionsUntilLongBreak = atLeastOne(s.SessionsUntilLongBreak)
	return s
}

// Minutes returns the configured length of phase p.
func (s PomodoroSettings) Minutes(p Phase) int {
	switch p {
	case PhaseShortBreak:
		return s.ShortBreakDuration
	case PhaseLongBreak:
		return s.LongBreakDuration
	default:
		return s.FocusDuration
	}
}

// Seconds returns the configured length of phase p in seconds.
func (s PomodoroSettings) Seconds(p Phase) int {
	return s.Minutes(p) * 60
}

// SettingsPatch is a partial settings update.
type SettingsPatch struct {
	FocusDuration          *int
	ShortBreakDuration     *int
	LongBreakDuration      *int
	SessionsUntilLongBreak *int
}

// Apply merges the patch and normalizes the result.
func (s PomodoroSettings) Apply(p SettingsPatch) PomodoroSettings {
	if p.FocusDuration != nil {
		s.FocusDuration = *p.FocusDuration
	}
	if p.ShortBreakDuration != nil {
		s.ShortBreakDuration = *p.ShortBreakDuration
	}
	if p.LongBreakDuration != nil {
		s.LongBreakDuration = *p.LongBreakDuration
	}
	if p.SessionsUntilLongBreak != nil {
		s.SessionsUntilLongBreak = *p.SessionsUntilLongBreak
	}
	return s.Normalize()
}

// SettingField names one editable settings field.
type SettingField string

const (
	FieldFocus      SettingField = "focusDuration"
	FieldShortBreak SettingField = "shortBreakDuration"
	FieldLongBreak  SettingField = "longBreakDuration"
	FieldSessions   SettingField = "sessionsUntilLongBreak"
)

// phase returns the phase a duration field controls.
func (f SettingField) phase() (Phase, bool) {
	switch f {
	case FieldFocus:
		return PhaseFocus, true
	case FieldShortBreak:
		return PhaseShortBreak, true
	case FieldLongBreak:
		return PhaseLongBreak, true
	}
	return "", false
}

// TimerState is the live pomodoro clock.
type TimerState struct {
	Phase             Phase `json:"phase"`
	TimeLeft          int   `json:"timeLeft"`
	IsRunning         bool  `json:"isRunning"`
	SessionsCompleted int   `json:"sessionsCompleted"`
}

// NewTimerState returns a paused focus timer at the configured length.
func NewTimerState(s PomodoroSettings) TimerState {
	return TimerState{Phase: PhaseFocus, TimeLeft: s.Seconds(PhaseFocus)}
}

// TimerPatch is a partial timer update.
type TimerPatch struct {
	Phase             *Phase
	TimeLeft          *int
	IsRunning         *bool
	SessionsCompleted *int
}

// Apply merges the patch, keeping counters non-negative.
func (t TimerState) Apply(p TimerPatch) TimerState {
	if p.Phase != nil {
		t.Phase = *p.Phase
	}
	if p.TimeLeft != nil {
		t.TimeLeft = max(0, *p.TimeLeft)
	}
	if p.IsRunning != nil {
		t.IsRunning = *p.IsRunning
	}
	if p.SessionsCompleted != nil {
		t.SessionsCompleted = max(0, *p.SessionsCompleted)
	}
	return t
}

// Tick counts down one second while running.
func (t TimerState) Tick() TimerState {
	if t.IsRunning && t.TimeLeft > 0 {
		t.TimeLeft--
	}
	return t
}

// Due reports whether the running timer has reached zero.
func (t TimerState) Due() bool {
	return t.IsRunning && t.TimeLeft == 0
}

// Complete moves to the next phase and pauses. After a focus phase the
// session counter grows and every Nth session earns a long break.
func (t TimerState) Complete(s PomodoroSettings) TimerState {
	s = s.Normalize()
	if t.Phase == PhaseFocus {
		t.SessionsCompleted++
		next := PhaseShortBreak
		if t.SessionsCompleted%s.SessionsUntilLongBreak == 0 {
			next = PhaseLongBreak
		}
		t.Phase = next
	} else {
		t.Phase = PhaseFocus
	}
	t.TimeLeft = s.Seconds(t.Phase)
	t.IsRunning = false
	return t
}

// SelectPhase switches phase while paused. It is a no-op while running
// or when p is already active.
func (t TimerState) SelectPhase(p Phase, s PomodoroSettings) TimerState {
	if t.IsRunning || t.Phase == p {
		return t
	}
	t.Phase = p
	t.TimeLeft = s.Seconds(p)
	return t
}

// Reset returns to a fresh paused focus phase with no sessions.
func (t TimerState) Reset(s PomodoroSettings) TimerState {
	return NewTimerState(s)
}

// ChangeDuration adjusts one settings field by delta, clamped at 1. When
// the field belongs to the active phase of a paused timer the countdown
// follows the new length.
func ChangeDuration(s PomodoroSettings, t TimerState, field SettingField, delta int) (PomodoroSettings, TimerState) {
	switch field {
	case FieldFocus:
		s.FocusDuration = atLeastOne(s.FocusDuration + delta)
	case FieldShortBreak:
		s.ShortBreakDuration = atLeastOne(s.ShortBreakDuration + delta)
	case FieldLongBreak:
		s.LongBreakDuration = atLeastOne(s.LongBreakDuration + delta)
	case FieldSessions:
		s.SessionsUntilLongBreak = atLeastOne(s.SessionsUntilLongBreak + delta)
	default:
		return s, t
	}
	if p, ok := field.phase(); ok && p == t.Phase && !t.IsRunning {
		t.TimeLeft = s.Seconds(p)
	}
	return s, t
}

// CompletionMessage is the notification body announcing the phase that
// follows from.
func CompletionMessage(from Phase) string {
	if from == PhaseFocus {
		return "Break time!"
	}
	return "Focus time!"
}

// Progress returns elapsed fraction of the current phase in [0,1].
func (t TimerState) Progress(s PomodoroSettings) float64 {
	total := s.Seconds(t.Phase)
	if total <= 0 {
		return 0
	}
	p := 1 - float64(t.TimeLeft)/float64(total)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// MinutesLeft rounds the remaining time up to whole minutes.
func (t TimerState) MinutesLeft() int {
	return (t.TimeLeft + 59) / 60
}

func atLeastOne(v int) int {
	if v < 1 {
		return 1
	}
	return v
}
