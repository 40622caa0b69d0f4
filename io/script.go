package io

import (
	"bufio"
	"strings"
)

// Script is a Messenger driven by canned input, capturing everything the
// machine prints. Diagnostics are kept separately from program output.
type Script struct {
	Output      strings.Builder // Program output.
	Diagnostics []string        // Diagnostic lines, in order.
	Prompts     int             // Number of prompts served.

	input *bufio.Reader
}

var _ Messenger = &Script{}
var _ Diagnostician = &Script{}

// NewScript creates a Script that answers prompts from input.
func NewScript(input string) *Script {
	return &Script{
		input: bufio.NewReader(strings.NewReader(input)),
	}
}

// Feed appends more input for later prompts.
func (sc *Script) Feed(input string) {
	rest, _ := sc.rest()
	sc.input = bufio.NewReader(strings.NewReader(rest + input))
}

func (sc *Script) rest() (text string, err error) {
	if sc.input == nil {
		return
	}
	var sb strings.Builder
	_, err = sc.input.WriteTo(&sb)
	text = sb.String()
	return
}

func (sc *Script) in() *bufio.Reader {
	if sc.input == nil {
		sc.input = bufio.NewReader(strings.NewReader(""))
	}
	return sc.input
}

// Print records program output.
func (sc *Script) Print(text string) {
	sc.Output.WriteString(text)
}

// Println records a line of program output.
func (sc *Script) Println(text string) {
	sc.Output.WriteString(text)
	sc.Output.WriteByte('\n')
}

// Diagnostic records a diagnostic line.
func (sc *Script) Diagnostic(text string) {
	sc.Diagnostics = append(sc.Diagnostics, text)
}

// PromptInt answers with the next input line parsed as an integer.
func (sc *Script) PromptInt() int32 {
	sc.Prompts++
	line, _ := readLine(sc.in())
	return parseInt(line)
}

// PromptChar answers with the next input character, or -1 when the
// script is exhausted.
func (sc *Script) PromptChar() int32 {
	sc.Prompts++
	r, _, err := sc.in().ReadRune()
	if err != nil {
		return -1
	}
	return int32(r)
}

// PromptCharArray answers with the next input line.
func (sc *Script) PromptCharArray() []int32 {
	sc.Prompts++
	line, _ := readLine(sc.in())
	return codes(line)
}
