package lifecycle

// OnResize propagates a viewport change. The 3D view only follows in Play;
// other phases defer it to the next commit into Play.
func (c *Controller) OnResize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.width, c.height = width, height
	c.svc.UI.OnResize(width, height)
	c.svc.Loading.OnResize(width, height)

	if c.phase == Play && c.world != nil {
		c.resizeView()
		return
	}
	c.resizeDeferred = true
}

func (c *Controller) resizeView() {
	c.svc.Renderer.OnResize(c.width, c.height)
	c.world.OnResize(c.width, c.height)
	c.resizeDeferred = false
}

func (c *Controller) applyDeferred() {
	if c.world == nil {
		return
	}
	if c.resizeDeferred && c.width > 0 {
		c.resizeView()
	}
	if c.fovDeferred {
		c.world.UpdateFov(c.cfg.Fov)
		c.fovDeferred = false
	}
}
