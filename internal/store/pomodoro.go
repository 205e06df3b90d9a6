package store

import "github.com/xvierd/dailo/internal/domain"

// UpdatePomodoroSettings merges new settings. A paused timer whose phase
// length changed follows the new length.
func (s *Store) UpdatePomodoroSettings(patch domain.SettingsPatch) {
	s.update(func(st *domain.State) bool {
		prev := st.PomodoroSettings
		st.PomodoroSettings = prev.Apply(patch)
		t := st.PomodoroTimer
		if !t.IsRunning && prev.Minutes(t.Phase) != st.PomodoroSettings.Minutes(t.Phase) {
			st.PomodoroTimer.TimeLeft = st.PomodoroSettings.Seconds(t.Phase)
		}
		return true
	})
}

// UpdatePomodoroTimer merges a partial timer state.
func (s *Store) UpdatePomodoroTimer(patch domain.TimerPatch) {
	s.update(func(st *domain.State) bool {
		st.PomodoroTimer = st.PomodoroTimer.Apply(patch)
		return true
	})
}

// TickPomodoroTimer counts down one second while running.
func (s *Store) TickPomodoroTimer() bool {
	return s.update(func(st *domain.State) bool {
		next := st.PomodoroTimer.Tick()
		if next == st.PomodoroTimer {
			return false
		}
		st.PomodoroTimer = next
		return true
	})
}

// CompletePomodoroPhase moves to the next phase and pauses. It returns
// the phase that just ended.
func (s *Store) CompletePomodoroPhase() domain.Phase {
	var ended domain.Phase
	s.update(func(st *domain.State) bool {
		ended = st.PomodoroTimer.Phase
		st.PomodoroTimer = st.PomodoroTimer.Complete(st.PomodoroSettings)
		return true
	})
	return ended
}

// SelectPomodoroPhase switches phase while paused.
func (s *Store) SelectPomodoroPhase(phase domain.Phase) bool {
	return s.update(func(st *domain.State) bool {
		next := st.PomodoroTimer.SelectPhase(phase, st.PomodoroSettings)
		if next == st.PomodoroTimer {
			return false
		}
		st.PomodoroTimer = next
		return true
	})
}

// ChangePomodoroDuration nudges one setting by delta minutes.
func (s *Store) ChangePomodoroDuration(field domain.SettingField, delta int) {
	s.update(func(st *domain.State) bool {
		st.PomodoroSettings, st.PomodoroTimer = domain.ChangeDuration(st.PomodoroSettings, st.PomodoroTimer, field, delta)
		return true
	})
}

// ResetPomodoroTimer returns to a fresh focus phase.
func (s *Store) ResetPomodoroTimer() {
	s.update(func(st *domain.State) bool {
		st.PomodoroTimer = st.PomodoroTimer.Reset(st.PomodoroSettings)
		return true
	})
}

// StartPomodoro starts the countdown. An exhausted timer is refilled
// from the phase length first.
func (s *Store) StartPomodoro() bool {
	return s.update(func(st *domain.State) bool {
		if st.PomodoroTimer.IsRunning {
			return false
		}
		if st.PomodoroTimer.TimeLeft == 0 {
			st.PomodoroTimer.TimeLeft = st.PomodoroSettings.Seconds(st.PomodoroTimer.Phase)
		}
		st.PomodoroTimer.IsRunning = true
		return true
	})
}

// PausePomodoro stops the countdown.
func (s *Store) PausePomodoro() {
	s.update(func(st *domain.State) bool {
		if !st.PomodoroTimer.IsRunning {
			return false
		}
		st.PomodoroTimer.IsRunning = false
		return true
	})
}

// TogglePomodoro starts or pauses and returns the new running flag.
func (s *Store) TogglePomodoro() bool {
	var running bool
	s.update(func(st *domain.State) bool {
		t := &st.PomodoroTimer
		if !t.IsRunning && t.TimeLeft == 0 {
			t.TimeLeft = st.PomodoroSettings.Seconds(t.Phase)
		}
		t.IsRunning = !t.IsRunning
		running = t.IsRunning
		return true
	})
	return running
}
