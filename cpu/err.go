package cpu

import (
	"errors"

	"github.com/ezrec/ssm/translate"
)

var f = translate.From

var (
	// Machine faults. These halt the machine.
	ErrAddressFault    = errors.New(f("address fault"))
	ErrDivideByZero    = errors.New(f("division by zero"))
	ErrRegisterInvalid = errors.New(f("register invalid"))
	ErrSizeInvalid     = errors.New(f("size invalid"))

	// File trap errors. These are reported, and execution continues.
	ErrFileNotFound  = errors.New(f("file not found"))
	ErrIO            = errors.New(f("i/o error"))
	ErrInvalidHandle = errors.New(f("invalid file handle"))

	// Configuration errors
	ErrConfigDirection = errors.New(f("direction must be 1 or -1"))
	ErrConfigNegative  = errors.New(f("sizes must not be negative"))

	// Image errors
	ErrEquateSyntax    = errors.New(f(".equ syntax"))
	ErrEquateDuplicate = errors.New(f(".equ duplicated"))
)

// ErrAddress is an access to an address outside of memory.
type ErrAddress int

func (ea ErrAddress) Error() string {
	return f("address %v out of range", int(ea))
}

func (ea ErrAddress) Unwrap() error {
	return ErrAddressFault
}

// ErrRegister is a reference to an unknown register.
type ErrRegister Word

func (er ErrRegister) Error() string {
	return f("register %v unknown", int(er))
}

func (er ErrRegister) Unwrap() error {
	return ErrRegisterInvalid
}

// ErrFault is a fault that halted the machine.
type ErrFault struct {
	Address int          // Address of the faulting instruction.
	Instr   *Instruction // Faulting instruction, if decoded.
	Err     error
}

func (err *ErrFault) Error() string {
	name := "?"
	if err.Instr != nil {
		name = err.Instr.Name
	}
	return f("%v at %v: %v", name, AsHex(Word(err.Address)), err.Err)
}

func (err *ErrFault) Unwrap() error {
	return err.Err
}

// ErrSyntax is an image parse error at a line.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %v '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
