package installer

import (
	"neverinstall/internal/escalation"
	"neverinstall/internal/ui"
)

// Farewell prints the closing banner after an interrupt. At Cosmic the engine
// may take the last word; everyone else is thanked politely.
func Farewell(c *ui.Console, engine *escalation.Engine, tier escalation.Tier) error {
	th := c.Theme
	c.Blank()
	c.Blank()
	if engine != nil {
		if msg, ok := engine.ExitMessage(tier); ok {
			c.Boxed("═", th.CosmicRule, th.CosmicRule, farewellWidth, msg)
			return c.Err()
		}
	}
	c.Boxed("═", th.HeaderRule, th.Farewell, farewellWidth,
		"Installation cancelled by user.",
		"Thank you for using Universal System Installer!")
	return c.Err()
}
