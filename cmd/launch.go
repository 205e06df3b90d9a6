package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xvierd/dailo/internal/adapters/mpv"
	"github.com/xvierd/dailo/internal/adapters/notification"
	"github.com/xvierd/dailo/internal/adapters/titlebar"
	"github.com/xvierd/dailo/internal/adapters/tty"
	"github.com/xvierd/dailo/internal/adapters/tui"
	"github.com/xvierd/dailo/internal/domain"
	"github.com/xvierd/dailo/internal/playback"
	"github.com/xvierd/dailo/internal/ports"
	"github.com/xvierd/dailo/internal/services"
	"github.com/xvierd/dailo/internal/surface"
)

// runDashboard is the bare "dailo" command: the full-screen dashboard
// with the pomodoro clock, playback and the detached timer wired in.
func runDashboard(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(setupSignalHandler())
	defer cancel()

	cfg := app.config
	logger := app.logger

	ticker := services.NewTicker(
		app.store,
		notification.NewChime(&cfg.Notifications),
		app.notifier,
		services.WithTitleSink(titlebar.New(os.Stdout)),
		services.WithLogger(prefixed(logger, "ticker: ")),
	)
	ticker.Start(ctx)
	defer ticker.Stop()

	backend := mpv.New(cfg.Playback.MPVPath)
	lofi := playback.NewStreamManager(backend, prefixed(logger, "lofi: "))
	ambient := playback.NewAmbientManager(backend, cfg.Playback.MediaDir, prefixed(logger, "ambient: "))
	defer func() {
		if err := lofi.Close(); err != nil {
			logger.Printf("lofi: %v", err)
		}
		if err := ambient.Close(); err != nil {
			logger.Printf("ambient: %v", err)
		}
	}()
	stopSync := syncPlayback(ctx, lofi, ambient)
	defer stopSync()

	host := tty.New(cfg.Surface.TTY)
	surfaces := surface.New(host, app.store, tui.NewTimerSurface(cfg.Theme), prefixed(logger, "surface: "))
	defer surfaces.Shutdown()

	err := tui.Run(ctx, tui.Deps{
		Store:         app.store,
		Timer:         ticker,
		Lofi:          lofi,
		LofiAvailable: backend.Available(),
		Ambient:       ambient,
		Surface:       surfaces,
		SurfaceSize:   ports.Size{Width: cfg.Surface.Width, Height: cfg.Surface.Height},
		Theme:         &cfg.Theme,
	})
	if err != nil {
		return fmt.Errorf("dashboard error: %w", err)
	}
	return nil
}

// syncPlayback restores the saved playback settings into both managers
// and records every later change back into the store. The returned func
// detaches the subscriptions.
func syncPlayback(ctx context.Context, lofi *playback.StreamManager, ambient *playback.AmbientManager) func() {
	st := app.store.GetState()
	custom := streamIDs(st.CustomStreams)
	lofi.SetCustomStreams(st.CustomStreams)

	lofi.Init(ctx)
	ambient.Init(ctx)
	lofi.RestoreState(st.Playback.Lofi)
	ambient.RestoreState(st.Playback.Ambient)

	unsubs := []func(){
		lofi.Subscribe(func(s playback.StreamState) {
			app.store.SetLofiSettings(s.Settings())
		}),
		ambient.Subscribe(func(s playback.AmbientState) {
			app.store.SetAmbientSettings(s.Settings())
		}),
		app.store.Subscribe(func(s domain.State) {
			if ids := streamIDs(s.CustomStreams); ids != custom {
				custom = ids
				lofi.SetCustomStreams(s.CustomStreams)
			}
		}),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

func streamIDs(streams []domain.CustomStream) string {
	ids := make([]string, len(streams))
	for i, s := range streams {
		ids[i] = s.ID
	}
	return strings.Join(ids, ",")
}
