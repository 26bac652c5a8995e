package ui

// Config contains window and viewer related settings.
type Config struct {
	Title           string // window title
	Scale           int    // integer upscaling factor
	StateDir        string // directory for save state slots
	ScreenshotScale int    // upscaling applied to saved screenshots
	FastFrames      int    // frames per update while fast-forwarding
}

// Defaults fills missing fields with reasonable defaults.
func (c *Config) Defaults() {
	if c.Title == "" {
		c.Title = "arcadevid"
	}
	if c.Scale <= 0 {
		c.Scale = 2
	}
	if c.StateDir == "" {
		c.StateDir = "states"
	}
	if c.ScreenshotScale <= 0 {
		c.ScreenshotScale = c.Scale
	}
	if c.FastFrames <= 0 {
		c.FastFrames = 5
	}
}
