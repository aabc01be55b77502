package main

import (
	"context"
	"os"

	"github.com/idlewatcher/idlewatcher/pkg/action"
	"github.com/idlewatcher/idlewatcher/pkg/config"
	"github.com/idlewatcher/idlewatcher/pkg/interfaces"
	"github.com/idlewatcher/idlewatcher/pkg/session"
	"github.com/idlewatcher/idlewatcher/pkg/watcher"
	"github.com/idlewatcher/idlewatcher/pkg/wayland"
)

// Dependencies holds all the dependencies for the application.
type Dependencies struct {
	Config    *config.Config
	Sessions  interfaces.SessionSampler
	Graphical interfaces.GraphicalSource
	Runner    interfaces.ActionRunner
	Watcher   *watcher.Watcher
}

// NewDependencies creates all dependencies with the given configuration.
func NewDependencies(cfg *config.Config) *Dependencies {
	deps := &Dependencies{Config: cfg}

	deps.Sessions = session.New()
	deps.Graphical = wayland.NewSupervisor(cfg.IdleTimeout, cfg.Display, cfg.Seat, os.Stderr)
	deps.Runner = action.NewRunner()
	deps.Watcher = watcher.New(cfg, deps.Sessions, deps.Graphical, deps.Runner)

	return deps
}

// Application represents the main application.
type Application struct {
	deps *Dependencies
}

// NewApplication creates a new application with the given dependencies.
func NewApplication(deps *Dependencies) *Application {
	return &Application{deps: deps}
}

// Run polls until the context is cancelled.
func (a *Application) Run(ctx context.Context) {
	a.deps.Watcher.Run(ctx)
}
