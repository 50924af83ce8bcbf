package cli

type RecordCmd struct{}

func (c *RecordCmd) Run(ctx *Context) error {
	return ctx.WithLock(func() error {
		t, err := ctx.Tracker()
		if err != nil {
			return err
		}
		// The streak that just ended is committed before the event lands, so
		// a level-up can be announced here too.
		u, err := t.RecordEvent()
		if err != nil {
			return err
		}
		snap := t.Snapshot()
		ctx.printf("✓ Recorded at %s. Today: %d, total: %d.\n",
			snap.Now.In(ctx.location()).Format("15:04"), snap.Stats.TodayCount, snap.Stats.TotalCount)
		ctx.printUpdate(u)
		return nil
	})
}
