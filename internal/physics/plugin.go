package physics

import (
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-collider/internal/geometry"
	"github.com/Faultbox/midgard-collider/internal/logger"
	"github.com/Faultbox/midgard-collider/internal/scene"
)

// Plugin runs the gated collider pass once per scheduler tick.
type Plugin struct {
	Gate    Gate
	Scanner Scanner

	exhaustedLogged bool
}

// NewPlugin creates a plugin with the default converter.
func NewPlugin() *Plugin {
	return &Plugin{}
}

// Tick evaluates the gate and, when eligible, runs one pass. ran reports
// whether the pass was attempted. Errors are content defects and should
// end the session.
func (p *Plugin) Tick(ctx *Context, w *scene.World, store *geometry.Store, assetsLoaded bool) (report Report, ran bool, err error) {
	if !p.Gate.Eligible(ctx, assetsLoaded) {
		p.noteExhausted(ctx)
		return Report{}, false, nil
	}

	report, err = p.Scanner.Pass(ctx, w, store)
	if err != nil {
		logger.Named("physics").Error("collider pass failed",
			zap.Uint64("tick", ctx.Ticks()),
			zap.Error(err))
		return report, true, err
	}
	return report, true, nil
}

// noteExhausted logs once when the budget runs out before anything was
// baked. Giving up is silent otherwise.
func (p *Plugin) noteExhausted(ctx *Context) {
	if p.exhaustedLogged || ctx.State() == Done || !p.Gate.Exhausted(ctx) {
		return
	}
	p.exhaustedLogged = true
	logger.Named("physics").Debug("collider tick budget exhausted without requests",
		zap.Int("max_ticks", MaxTicks))
}
