package cpu

import (
	"errors"
	"strconv"
	"strings"
)

// popString pops a zero terminated string of character codes.
func (cpu *Cpu) popString() (text string, err error) {
	var sb strings.Builder
	for {
		var ch Word
		ch, err = cpu.pop()
		if err != nil {
			return
		}
		if ch == 0 {
			break
		}
		sb.WriteRune(rune(ch))
	}
	text = sb.String()
	return
}

// fileError reports a failed file trap.
func (cpu *Cpu) fileError(err error, text string) {
	if errors.Is(err, ErrInvalidHandle) {
		text = f("Error: invalid file pointer.")
	}
	cpu.diagnose(text)
}

// trap executes a TRAP sub-operation. File errors are reported, and the
// trap pushes nothing.
func (cpu *Cpu) trap(code Word) (err error) {
	msg := cpu.Messenger
	ann := cpu.annotation()

	var a, b Word
	var ferr error

	switch code {
	case TR_PR_INT:
		a, err = cpu.pop()
		if err != nil {
			return
		}
		msg.Println(strconv.Itoa(int(a)))
	case TR_PR_CHAR:
		a, err = cpu.pop()
		if err != nil {
			return
		}
		msg.Print(string(rune(a)))
	case TR_IN_INT:
		err = cpu.push(Word(msg.PromptInt()), ann)
	case TR_IN_CHAR:
		err = cpu.push(Word(msg.PromptChar()), ann)
	case TR_IN_CHAR_ARRAY:
		err = cpu.push(0, ann)
		if err != nil {
			return
		}
		chars := msg.PromptCharArray()
		for n := len(chars) - 1; n >= 0; n-- {
			err = cpu.push(Word(chars[n]), ann)
			if err != nil {
				return
			}
		}
	case TR_FILE_OPEN_READ, TR_FILE_OPEN_WRITE:
		var name string
		name, err = cpu.popString()
		if err != nil {
			return
		}
		a, ferr = cpu.OpenFile(name, code == TR_FILE_OPEN_READ)
		if ferr != nil {
			cpu.diagnose(f("Error: file %v not found", name))
			return
		}
		err = cpu.push(a, ann)
	case TR_FILE_READ:
		a, err = cpu.pop()
		if err != nil {
			return
		}
		b, ferr = cpu.ReadFromFile(a)
		if ferr != nil {
			cpu.fileError(ferr, f("Error: cannot read from file."))
			return
		}
		err = cpu.push(b, ann)
	case TR_FILE_WRITE:
		a, err = cpu.pop()
		if err != nil {
			return
		}
		b, err = cpu.pop()
		if err != nil {
			return
		}
		b, ferr = cpu.WriteToFile(a, b)
		if ferr != nil {
			cpu.fileError(ferr, f("Error: cannot write to file."))
			return
		}
		err = cpu.push(b, ann)
	case TR_FILE_CLOSE:
		a, err = cpu.pop()
		if err != nil {
			return
		}
		ferr = cpu.CloseFile(a)
		if ferr != nil {
			cpu.fileError(ferr, f("Error: cannot close file."))
		}
	default:
		cpu.notImplemented()
	}

	return
}
