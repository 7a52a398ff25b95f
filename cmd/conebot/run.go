package main

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gwillem/conebot/pkg/opmode"
	"github.com/gwillem/conebot/pkg/timer"
)

// session is a controller with its log channel, ready for an op mode.
type session struct {
	ctrl *opmode.Controller
	logs *opmode.LogWriter
}

func newSession(hz int, plant opmode.Plant) *session {
	logs := opmode.NewLogWriter(10)
	logger := opmode.NewConsoleLogger(logs, logLevel())
	return &session{
		ctrl: opmode.NewController(opmode.Config{
			Hz:     hz,
			Plant:  plant,
			Clock:  timer.System,
			Logger: &logger,
		}),
		logs: logs,
	}
}

// run starts the control loop in the background and shows the dashboard
// until the user quits.
func (s *session) run(mode opmode.OpMode, model dashboardModel) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.ctrl.Start(ctx, mode)
	}()

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run dashboard: %w", err)
	}

	cancel()
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("control loop: %w", err)
	}
	return nil
}
