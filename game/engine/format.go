package engine

import "fmt"

// FormatQi renders a qi amount with two decimals for display
func FormatQi(qi float64) string {
	return fmt.Sprintf("%.2f", qi)
}

// StatusLines renders the status panel shown to the player
func StatusLines(c Cultivator) []string {
	return []string{
		fmt.Sprintf("Level of Spiritual cultivation: %s", c.SpiritualTier.Label()),
		fmt.Sprintf("Quality of Spiritual veins: %s", c.SpiritualHarmony.Label()),
		fmt.Sprintf("Spiritual qi : %s", FormatQi(c.SpiritualQi)),
		fmt.Sprintf("Stage of Vessel cultivation: %s", c.VesselTier.Label()),
		fmt.Sprintf("Vessel qi : %s", FormatQi(c.VesselQi)),
		fmt.Sprintf("Completed Vessel cycles: %d", c.VesselCycles),
		fmt.Sprintf("Quality of Meridians: %s", c.Meridians.Label()),
	}
}
