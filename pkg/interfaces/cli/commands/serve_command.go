package commands

import (
	"context"

	"github.com/vsinha/shoplist/pkg/interfaces/web"
)

// ServeCommand runs the web interface until ctx is cancelled
type ServeCommand struct {
	app  *App
	addr string
}

// NewServeCommand creates a serve command; an empty addr uses server.addr from the config
func NewServeCommand(app *App, addr string) *ServeCommand {
	if addr == "" {
		addr = app.Config.Server.Addr
	}
	return &ServeCommand{app: app, addr: addr}
}

// Server builds the web server over the app's services
func (c *ServeCommand) Server() (*web.Server, error) {
	return web.New(web.Dependencies{
		Planner:        c.app.Planner,
		RecipeEditor:   c.app.RecipeEditor,
		BaselineEditor: c.app.BaselineEditor,
		Gate:           c.app.Gate,
		Events:         c.app.Events,
		Metrics:        c.app.Metrics,
		Logger:         c.app.Logger,
	})
}

// Execute serves HTTP on the configured address
func (c *ServeCommand) Execute(ctx context.Context) error {
	srv, err := c.Server()
	if err != nil {
		return err
	}
	return srv.ListenAndServe(ctx, c.addr)
}
