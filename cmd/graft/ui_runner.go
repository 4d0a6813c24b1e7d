package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"graft/internal/driver"
	"graft/internal/ui"
)

type runOutcome struct {
	result *driver.Result
	err    error
}

// runWithUI executes the batch behind a Bubble Tea progress view. The
// driver runs on its own goroutine and feeds events through a channel;
// the request's Progress callback is replaced with the channel sink.
func runWithUI(ctx context.Context, title string, files []string, req driver.Request) (*driver.Result, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan runOutcome, 1)

	go func() {
		req.Progress = func(ev driver.Event) { events <- ev }
		res, err := driver.Run(ctx, req)
		outcomeCh <- runOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := waitForDriver(events, outcomeCh)
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}

// waitForDriver drains leftover progress events until the driver closes
// the channel, then collects its outcome. The view can exit (or fail)
// while the driver is still emitting; without the drain a full event
// buffer would block the driver goroutine forever.
func waitForDriver(events <-chan driver.Event, outcomeCh <-chan runOutcome) runOutcome {
	for range events {
	}
	return <-outcomeCh
}
