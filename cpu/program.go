package cpu

import (
	"fmt"
	"iter"
	"slices"
	"strings"
)

// Program is a program image, with the source line of every word.
type Program struct {
	Origin int    // Load address.
	Words  []Word // Image.
	Lines  []int  // Source line of each word, if known.
}

// Code is a decoded instruction of a program.
type Code struct {
	Address  int          // Address of the opcode.
	Instr    *Instruction // Instruction, or nil for an unknown opcode.
	Code     Word         // Opcode.
	Operands []Word       // Inline operands.
}

// Size returns the number of words of the code.
func (code Code) Size() int {
	return 1 + len(code.Operands)
}

func (code Code) String() string {
	if code.Instr == nil {
		return AsHex(code.Code)
	}
	var text strings.Builder
	text.WriteString(code.Instr.Name)
	for _, op := range code.Operands {
		fmt.Fprintf(&text, " %d", op)
	}
	return text.String()
}

// Debug locates an address within a program.
type Debug struct {
	Code
	Index  int // Word index within the code.
	LineNo int // Source line, or 0.
}

// Codes decodes the program, from its first word.
func (prog *Program) Codes() iter.Seq[Code] {
	return func(yield func(code Code) bool) {
		for n := 0; n < len(prog.Words); {
			code := Code{
				Address: prog.Origin + n,
				Code:    prog.Words[n],
			}
			instr, ok := Lookup(code.Code)
			if ok {
				code.Instr = instr
				end := min(n+1+instr.Operands, len(prog.Words))
				code.Operands = slices.Clone(prog.Words[n+1 : end])
			}
			if !yield(code) {
				return
			}
			n += code.Size()
		}
	}
}

// Debug returns the code that contains an address.
func (prog *Program) Debug(addr int) (dbg Debug, ok bool) {
	for code := range prog.Codes() {
		if addr >= code.Address && addr < code.Address+code.Size() {
			dbg = Debug{
				Code:   code,
				Index:  addr - code.Address,
				LineNo: prog.LineNo(code.Address),
			}
			ok = true
			break
		}
	}

	return
}

// LineNo returns the source line of the word at an address, or 0.
func (prog *Program) LineNo(addr int) int {
	n := addr - prog.Origin
	if n < 0 || n >= len(prog.Lines) {
		return 0
	}
	return prog.Lines[n]
}

// Binary returns the image.
func (prog *Program) Binary() []Word {
	return slices.Clone(prog.Words)
}

// Listing returns one line per code: address, words and mnemonic.
func (prog *Program) Listing() iter.Seq[string] {
	return func(yield func(string) bool) {
		for code := range prog.Codes() {
			words := []string{AsHex(code.Code)}
			for _, op := range code.Operands {
				words = append(words, AsHex(op))
			}
			line := fmt.Sprintf("%v: %-26s %v", AsHex(Word(code.Address)), strings.Join(words, " "), code)
			if !yield(line) {
				return
			}
		}
	}
}
