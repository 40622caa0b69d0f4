package emulator

import (
	"errors"

	"github.com/ezrec/ssm/translate"
)

var f = translate.From

var (
	ErrConfigHistory = errors.New(f("history depth must not be negative, and snapshot interval must be positive"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	LineNo int
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("line %d %v", err.LineNo, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}

// ErrConfigKey is an unknown key in a configuration file.
type ErrConfigKey string

func (err ErrConfigKey) Error() string {
	return f("configuration key '%v' unknown", string(err))
}

// ErrOrigin is a program that does not load at the machine origin.
type ErrOrigin int

func (err ErrOrigin) Error() string {
	return f("program origin %v does not match the machine origin", int(err))
}
