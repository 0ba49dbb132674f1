package lifecycle

import "go.uber.org/zap"

// Dispose tears the controller down for good. Later Update and Draw calls
// do nothing.
func (c *Controller) Dispose() {
	if c.phase == Disposed {
		return
	}
	c.dispose()
}

// dispose runs the teardown in a fixed order: command set, world, tweens,
// renderer, scene, phase marker.
func (c *Controller) dispose() {
	if c.world != nil && c.commands == nil {
		panic("lifecycle: world alive without a command set")
	}

	if c.commands != nil {
		c.svc.Commands.Unregister()
		c.commands.revoke()
		c.commands = nil
	}

	if c.world != nil {
		if err := c.world.Dispose(); err != nil {
			c.log.Warn("world dispose", zap.Error(err))
		}
		c.world = nil
		c.info = LevelInfo{}
	}

	c.svc.Tweens.CancelAll()
	c.svc.Renderer.Reset()
	c.scene = nil

	c.phase = Disposed
	c.hasPending = false
	c.menuOnPlay = false
}
