package cpu

// Config is the layout of a machine: where the image is loaded, which way
// the stack grows, and where the heap starts.
type Config struct {
	Origin       int `toml:"origin"`        // Load address of the image, and the initial PC.
	Direction    int `toml:"direction"`     // Stack growth direction, +1 or -1.
	AutoGrow     int `toml:"auto_grow"`     // Maximum memory growth per access.
	MemorySize   int `toml:"memory_size"`   // Initial memory size.
	HeapBase     int `toml:"heap_base"`     // Initial HP.
	InitialFrame int `toml:"initial_frame"` // Words reserved on the stack at reset.
}

// DefaultConfig returns the standard machine layout.
func DefaultConfig() Config {
	return Config{
		Origin:     0,
		Direction:  1,
		AutoGrow:   100,
		MemorySize: 2000,
		HeapBase:   2000,
	}
}

// Validate checks the configuration.
func (cfg Config) Validate() (err error) {
	if cfg.Direction != 1 && cfg.Direction != -1 {
		err = ErrConfigDirection
		return
	}
	if cfg.Origin < 0 || cfg.AutoGrow < 0 || cfg.MemorySize < 0 || cfg.HeapBase < 0 || cfg.InitialFrame < 0 {
		err = ErrConfigNegative
		return
	}
	return
}

// StackBottom returns the address of the first stack slot, for an image of
// the given length.
func (cfg Config) StackBottom(imageLen int) int {
	if cfg.Direction < 0 {
		return cfg.HeapBase - 1
	}
	return cfg.Origin + imageLen
}

// memorySize returns the memory size needed for an image.
func (cfg Config) memorySize(imageLen int) int {
	return max(cfg.MemorySize, cfg.Origin+imageLen, cfg.HeapBase)
}
