// Package io provides the console and file collaborators of the stack
// machine: Messenger implementations used by TRAP console operations, and
// the file systems that back the file traps.
package io

// Messenger is the console a running program talks to. Values are machine
// words.
type Messenger interface {
	// Print writes text without a line terminator.
	Print(text string)
	// Println writes text followed by a line terminator.
	Println(text string)
	// PromptInt reads an integer.
	PromptInt() int32
	// PromptChar reads a single character code.
	PromptChar() int32
	// PromptCharArray reads a line of character codes, without a
	// terminating NUL.
	PromptCharArray() []int32
}

// Diagnostician is implemented by a Messenger that keeps machine
// diagnostics apart from program output.
type Diagnostician interface {
	Diagnostic(text string)
}

// Diagnose sends a diagnostic line to msg, using its Diagnostician if it
// has one.
func Diagnose(msg Messenger, text string) {
	if diag, ok := msg.(Diagnostician); ok {
		diag.Diagnostic(text)
		return
	}
	msg.Println(text)
}
