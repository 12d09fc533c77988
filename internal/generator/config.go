package generator

// Config drives the synthetic data generator.
type Config struct {
	NumCelebrities    int
	MinNodesPerCeleb  int
	MaxNodesPerCeleb  int
	ContactInfoChance float64
	SecondHopChance   float64
	Seed              int64
}

// DefaultConfig returns baseline settings for a demo-sized dataset.
func DefaultConfig() Config {
	return Config{
		NumCelebrities:    25,
		MinNodesPerCeleb:  3,
		MaxNodesPerCeleb:  8,
		ContactInfoChance: 0.6,
		SecondHopChance:   0.35,
		Seed:              42,
	}
}
