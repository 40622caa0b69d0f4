package io

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Console is a Messenger over a reader and writer pair, usually the
// process standard input and output.
type Console struct {
	Input       io.Reader // Source of prompted input.
	Output      io.Writer // Program output.
	Diagnostics io.Writer // Diagnostics. If nil, they go to Output.
	Prompt      bool      // If set, a prompt is written before reading.

	reader *bufio.Reader
	source io.Reader
	output *bufio.Writer
	target io.Writer
}

var _ Messenger = &Console{}
var _ Diagnostician = &Console{}

func (con *Console) in() *bufio.Reader {
	if con.reader == nil || con.source != con.Input {
		con.source = con.Input
		input := con.Input
		if input == nil {
			input = strings.NewReader("")
		}
		con.reader = bufio.NewReader(input)
	}
	return con.reader
}

func (con *Console) out() *bufio.Writer {
	if con.output == nil || con.target != con.Output {
		con.target = con.Output
		con.output = bufio.NewWriter(con.Output)
	}
	return con.output
}

// Flush writes any buffered program output.
func (con *Console) Flush() (err error) {
	if con.output == nil {
		return
	}
	return con.output.Flush()
}

// Print writes text to the output.
func (con *Console) Print(text string) {
	con.out().WriteString(text)
}

// Println writes a line to the output.
func (con *Console) Println(text string) {
	con.out().WriteString(text)
	con.out().WriteByte('\n')
}

// Diagnostic writes a diagnostic line. Program output is flushed first so
// the two streams interleave in program order.
func (con *Console) Diagnostic(text string) {
	con.Flush()
	if con.Diagnostics == nil {
		fmt.Fprintln(con.Output, text)
		return
	}
	fmt.Fprintln(con.Diagnostics, text)
}

func (con *Console) ask(what string) {
	if con.Prompt {
		con.Print(f("Please enter %v: ", what))
	}
	con.Flush()
}

// PromptInt reads a line and parses it as an integer. Unparsable input
// reads as 0.
func (con *Console) PromptInt() int32 {
	con.ask(f("an integer"))
	line, _ := readLine(con.in())
	return parseInt(line)
}

// PromptChar reads one character. At end of input it returns -1.
func (con *Console) PromptChar() int32 {
	con.ask(f("a character"))
	r, _, err := con.in().ReadRune()
	if err != nil {
		return -1
	}
	return int32(r)
}

// PromptCharArray reads a line as character codes.
func (con *Console) PromptCharArray() []int32 {
	con.ask(f("a string"))
	line, _ := readLine(con.in())
	return codes(line)
}

// readLine reads up to and excluding the next line terminator.
func readLine(in *bufio.Reader) (line string, err error) {
	line, err = in.ReadString('\n')
	if err == io.EOF && len(line) > 0 {
		err = nil
	}
	line = strings.TrimRight(line, "\r\n")
	return
}

func parseInt(text string) int32 {
	v, err := strconv.ParseInt(strings.TrimSpace(text), 0, 32)
	if err != nil {
		return 0
	}
	return int32(v)
}

// codes converts text to character codes. NULs are dropped, since a NUL
// ends a string on the machine stack.
func codes(text string) (out []int32) {
	out = make([]int32, 0, utf8.RuneCountInString(text))
	for _, r := range text {
		if r == 0 {
			continue
		}
		out = append(out, int32(r))
	}
	return
}
