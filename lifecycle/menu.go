package lifecycle

// OpenMenu pauses play. It is ignored unless a world is live.
func (c *Controller) OpenMenu() {
	if c.world == nil || !c.phase.Interactive() {
		return
	}
	c.openMenu()
}

// CloseMenu resumes play. It is ignored unless a world is live.
func (c *Controller) CloseMenu() {
	if c.world == nil || !c.phase.Interactive() {
		return
	}
	c.closeMenu()
}

func (c *Controller) openMenu() {
	c.request(Menu)
	c.world.EnterMenu()
	c.svc.Renderer.SetPausedMode(true)
	c.svc.UI.SetMenuActive(true)
	if c.cfg.Debug {
		c.svc.Debug.SetVisible(false)
	}
}

func (c *Controller) closeMenu() {
	c.request(Play)
	c.world.LeaveMenu()
	c.svc.Renderer.SetPausedMode(false)
	c.svc.UI.SetMenuActive(false)
	if c.cfg.Debug {
		c.svc.Debug.SetVisible(true)
	}
}
