package physics

// MaxTicks bounds how many ticks the gate keeps polling for collider
// requests. Scenes without any request stop paying for the scan after this.
const MaxTicks = 200

// Gate decides whether the collider pass should run on a tick.
type Gate struct{}

// Eligible spends one tick of budget, whatever the outcome, and reports
// whether the pass may run: budget left, assets loaded and state Waiting.
func (Gate) Eligible(ctx *Context, assetsLoaded bool) bool {
	spent := ctx.spendTick()

	return spent < MaxTicks &&
		assetsLoaded &&
		ctx.State() != Done
}

// Exhausted reports whether the tick budget is used up.
func (Gate) Exhausted(ctx *Context) bool {
	return ctx.Ticks() >= MaxTicks
}
