package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/xvierd/dailo/internal/domain"
	"github.com/xvierd/dailo/internal/playback"
)

// Run starts the dashboard and blocks until the user quits or ctx is
// cancelled.
func Run(ctx context.Context, deps Deps) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tea.NewProgram(
		NewModel(ctx, deps),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	unsubscribe := []func(){
		feed(ctx, program, deps.Store.Subscribe, func(st domain.State) tea.Msg { return storeMsg{st} }),
	}
	if deps.Lofi != nil {
		unsubscribe = append(unsubscribe,
			feed(ctx, program, deps.Lofi.Subscribe, func(st playback.StreamState) tea.Msg { return lofiMsg{st} }))
	}
	if deps.Ambient != nil {
		unsubscribe = append(unsubscribe,
			feed(ctx, program, deps.Ambient.Subscribe, func(st playback.AmbientState) tea.Msg { return ambientMsg{st} }))
	}
	defer func() {
		for _, u := range unsubscribe {
			u()
		}
	}()

	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// feed forwards listener updates into the program. Only the newest
// pending update is kept so a busy render loop never blocks the sender.
func feed[S any](ctx context.Context, p *tea.Program, subscribe func(func(S)) func(), wrap func(S) tea.Msg) func() {
	updates := make(chan S, 1)
	unsubscribe := subscribe(func(st S) {
		for {
			select {
			case updates <- st:
				return
			default:
			}
			select {
			case <-updates:
			default:
			}
		}
	})
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case st := <-updates:
				p.Send(wrap(st))
			}
		}
	}()
	return unsubscribe
}
