package module

import (
	"time"

	"github.com/kingrea/ismsforge/internal/config"
	"github.com/kingrea/ismsforge/internal/logbook"
	"github.com/kingrea/ismsforge/internal/workspace"
)

// Logger is the minimal logging surface carried into modules. It matches
// logging.Logger's signature.
type Logger interface {
	Printf(format string, args ...any)
}

// Context carries shared runtime dependencies into every module.
type Context struct {
	Config    *config.Config
	Workspace *workspace.Workspace
	Logbook   *logbook.Logbook
	Logger    Logger
	// Notify broadcasts a data-updated signal after a mutating save. May be
	// nil when the bridge is disabled.
	Notify func(moduleID, storageKey string)
	Clock  func() time.Time
}

// NewContext builds a Context with a real clock.
func NewContext(cfg *config.Config, ws *workspace.Workspace, lb *logbook.Logbook) *Context {
	return &Context{
		Config:    cfg,
		Workspace: ws,
		Logbook:   lb,
		Clock:     time.Now,
	}
}

// WithClock returns a copy of the context using the provided clock.
func (ctx *Context) WithClock(clock func() time.Time) *Context {
	clone := *ctx
	if clock != nil {
		clone.Clock = clock
	}
	return &clone
}

// Now returns the context time in UTC.
func (ctx *Context) Now() time.Time {
	if ctx == nil || ctx.Clock == nil {
		return time.Now().UTC()
	}
	return ctx.Clock().UTC()
}

// Announce invokes the data-updated callback, if any.
func (ctx *Context) Announce(moduleID, storageKey string) {
	if ctx != nil && ctx.Notify != nil {
		ctx.Notify(moduleID, storageKey)
	}
}

// Logf writes to the application log when a logger is attached.
func (ctx *Context) Logf(format string, args ...any) {
	if ctx != nil && ctx.Logger != nil {
		ctx.Logger.Printf(format, args...)
	}
}
