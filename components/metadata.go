package components

// FieldDescriptor describes a component field for UI display.
type FieldDescriptor struct {
	ID     string  // Unique identifier
	Label  string  // Display name
	Format string  // Printf format (e.g., "%.2f")
	Min    float32 // Bar range
	Max    float32
}

// String returns the display name for a State.
func (s State) String() string {
	names := StateNames()
	if int(s) < len(names) {
		return names[s]
	}
	return "Unknown"
}

// StateNames returns the display names for all behavior states.
// The order matches the State constants.
func StateNames() []string {
	return []string{"Wander", "Seek Food", "Hunt", "Flee"}
}

// String returns the display name for a Diet.
func (d Diet) String() string {
	names := DietNames()
	if int(d) < len(names) {
		return names[d]
	}
	return "Unknown"
}

// DietNames returns the display names for all diets.
func DietNames() []string {
	return []string{"Herbivore", "Omnivore", "Carnivore"}
}

// GenomeFieldDescriptors returns metadata for Genome fields.
func GenomeFieldDescriptors() []FieldDescriptor {
	return []FieldDescriptor{
		{ID: "speed", Label: "SPD", Format: "%.2f", Min: SpeedRange.Min, Max: SpeedRange.Max},
		{ID: "perception", Label: "PER", Format: "%.0f", Min: PerceptionRange.Min, Max: PerceptionRange.Max},
		{ID: "size", Label: "SIZ", Format: "%.2f", Min: SizeRange.Min, Max: SizeRange.Max},
		{ID: "efficiency", Label: "EFF", Format: "%.2f", Min: EfficiencyRange.Min, Max: EfficiencyRange.Max},
	}
}

// GenomeValue returns the value of the named genome field.
func GenomeValue(g *Genome, id string) float32 {
	switch id {
	case "speed":
		return g.Speed
	case "perception":
		return g.Perception
	case "size":
		return g.Size
	case "efficiency":
		return g.Efficiency
	}
	return 0
}
