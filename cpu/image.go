// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"strings"
	"unicode/utf8"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system equates, updated for every line.
var sysEquate = map[string]string{
	"LINENO": "0", // Current source line.
	"LOC":    "0", // Address of the first word of the line.
}

var (
	charRe  = regexp.MustCompile(`'(\\.|[^'\\]+)'`)
	parenRe = regexp.MustCompile(`\$\([^\$]*\)`)
)

// ImageParser reads the text form of a program image: machine words
// separated by spaces or commas, one or more per line.
//
//	; comment
//	.equ NAME VALUE     ; named constant
//	0x84 3              ; words, in any Go number syntax
//	$(LDC) 'A'          ; expressions and character codes
//
// A $(...) expression is evaluated with Starlark. It may use the equates,
// LINENO, LOC, and the names from Defines().
type ImageParser struct {
	Verbose bool              // If set, verbosely logs the parsed lines.
	Origin  int               // Address of the first word.
	Equate  map[string]string // Map of equates.

	predefine map[string]string
	words     []Word
	lines     []int
}

// Predefine defines an equate for every later Parse.
func (ip *ImageParser) Predefine(equ string, value string) {
	if ip.predefine == nil {
		ip.predefine = map[string]string{equ: value}
	} else {
		ip.predefine[equ] = value
	}
}

// valueOf returns the value of a single word.
func (ip *ImageParser) valueOf(word string) (value Word, err error) {
	equate, ok := ip.Equate[word]
	if ok {
		word = equate
	}
	return FromHex(word, false)
}

// parenEval does compile-time $(...) evaluations.
func (ip *ImageParser) parenEval(expr string) (value Word, err error) {
	thread := starlark.Thread{Name: "image"}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, w := range Defines() {
		pred[key] = starlark.MakeInt(int(w))
	}
	for key := range ip.Equate {
		w, perr := ip.valueOf(key)
		if perr != nil {
			continue
		}
		pred[key] = starlark.MakeInt(int(w))
	}

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_int, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok || st_int64 < -(1<<31) || st_int64 >= 1<<32 {
		err = ErrParseExpression(expr)
		return
	}
	value = Word(int32(st_int64))
	return
}

// charValue converts the body of a character literal.
func charValue(body string) (value Word, ok bool) {
	if body[0] == '\\' {
		switch body[1:] {
		case "\\":
			value = '\\'
		case "'":
			value = '\''
		case "n":
			value = '\n'
		case "r":
			value = '\r'
		case "t":
			value = '\t'
		case "0":
			value = 0
		case "e":
			value = 033
		default:
			return
		}
		return value, true
	}
	ch, size := utf8.DecodeRuneInString(body)
	if size != len(body) || ch == utf8.RuneError {
		return
	}
	return Word(ch), true
}

// stripComment removes a ';' comment, ignoring ';' in character literals.
func stripComment(text string) string {
	spans := charRe.FindAllStringIndex(text, -1)
	for n := 0; n < len(text); n++ {
		if len(spans) > 0 && n >= spans[0][0] {
			n = spans[0][1] - 1
			spans = spans[1:]
			continue
		}
		if text[n] == ';' {
			return text[:n]
		}
	}
	return text
}

// parseLine parses a single line into words.
func (ip *ImageParser) parseLine(line string, lineno int) (words []Word, err error) {
	ip.Equate["LINENO"] = fmt.Sprintf("%v", lineno)
	ip.Equate["LOC"] = fmt.Sprintf("%v", ip.Origin+len(ip.words))

	// Do 'x' evaluations
	line = charRe.ReplaceAllStringFunc(line, func(word string) string {
		value, ok := charValue(word[1 : len(word)-1])
		if !ok {
			return word
		}
		return fmt.Sprintf("%v", value)
	})

	// Do $() evaluations
	line = parenRe.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := ip.parenEval(str[2 : len(str)-1])
		if _err != nil && err == nil {
			err = _err
		}
		return fmt.Sprintf("%v", value)
	})
	if err != nil {
		return
	}

	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ','
	})
	if len(fields) == 0 {
		return
	}

	// .equ CONST VALUE
	if fields[0] == ".equ" {
		if len(fields) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := ip.Equate[fields[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		var value Word
		value, err = ip.valueOf(fields[2])
		if err != nil {
			return
		}
		ip.Equate[fields[1]] = fmt.Sprintf("%v", value)
		return
	}

	for _, field := range fields {
		var value Word
		value, err = ip.valueOf(field)
		if err != nil {
			return
		}
		words = append(words, value)
	}

	return
}

// Parse parses an input stream into a Program.
func (ip *ImageParser) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	ip.words = nil
	ip.lines = nil
	ip.Equate = maps.Clone(sysEquate)
	maps.Copy(ip.Equate, ip.predefine)

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if ip.Verbose {
			log.Printf("image: %v: %v\n", lineno, text)
		}

		line = strings.TrimSpace(stripComment(text))

		var words []Word
		words, err = ip.parseLine(line, lineno)
		if err != nil {
			return
		}

		for _, w := range words {
			ip.words = append(ip.words, w)
			ip.lines = append(ip.lines, lineno)
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	prog = &Program{
		Origin: ip.Origin,
		Words:  ip.words,
		Lines:  ip.lines,
	}

	return
}
