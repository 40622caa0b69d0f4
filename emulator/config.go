package emulator

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/ezrec/ssm/cpu"
)

// Config is the emulator configuration: the machine layout, plus the
// history and file system settings.
type Config struct {
	cpu.Config

	HistoryDepth     int    `toml:"history_depth"`     // Steps kept for StepBack. 0 disables the step history.
	SnapshotInterval int    `toml:"snapshot_interval"` // Steps between full snapshots.
	Files            string `toml:"files"`             // Directory of the file traps. If empty, no file can be opened.
}

// DefaultConfig returns the default emulator configuration.
func DefaultConfig() Config {
	return Config{
		Config:           cpu.DefaultConfig(),
		HistoryDepth:     10000,
		SnapshotInterval: 100,
	}
}

// Validate checks the configuration.
func (cfg Config) Validate() (err error) {
	err = cfg.Config.Validate()
	if err != nil {
		return
	}

	if cfg.HistoryDepth < 0 || cfg.SnapshotInterval < 1 {
		err = ErrConfigHistory
		return
	}

	return
}

// ParseConfig parses a TOML configuration. Keys not given keep their
// default value, and unknown keys are an error.
func ParseConfig(text string) (cfg Config, err error) {
	cfg = DefaultConfig()

	md, err := toml.Decode(text, &cfg)
	if err != nil {
		return
	}

	undecoded := md.Undecoded()
	if len(undecoded) != 0 {
		err = ErrConfigKey(undecoded[0].String())
		return
	}

	err = cfg.Validate()

	return
}

// LoadConfig reads a TOML configuration file.
func LoadConfig(path string) (cfg Config, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	return ParseConfig(string(data))
}
