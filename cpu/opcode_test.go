package cpu

import (
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	assert := assert.New(t)

	instr, ok := Lookup(I_LDC)
	assert.True(ok)
	assert.Equal("ldc", instr.Name)
	assert.Equal(1, instr.Operands)
	assert.Equal(CTG_OP, instr.Category)

	instr, ok = Lookup(0xff)
	assert.False(ok)
	assert.Nil(instr)
	assert.Equal("?", instr.String())

	instr, ok = LookupName("LDMH")
	assert.True(ok)
	assert.Equal(I_LDMH, instr.Code)
	assert.Equal(2, instr.Operands)

	_, ok = LookupName("push")
	assert.False(ok)
}

func TestInstructions(t *testing.T) {
	assert := assert.New(t)

	var last Word = -1
	count := 0
	for instr := range Instructions() {
		assert.Greater(instr.Code, last)
		last = instr.Code
		count++

		switch instr.Category {
		case CTG_BINOP, CTG_UNOP:
			assert.Equal(0, instr.Operands, instr.Name)
		case CTG_BRCC:
			assert.Equal(1, instr.Operands, instr.Name)
			assert.NotZero(instr.Cond, instr.Name)
		}
	}
	assert.Equal(len(instructionSet), count)
	assert.Equal("brcc", CTG_BRCC.String())
}

func TestCondMask(t *testing.T) {
	assert := assert.New(t)

	beq, _ := Lookup(BR_EQ)
	bne, _ := Lookup(BR_NE)

	for sr := range Word(16) {
		assert.Equal(sr&CC_Z != 0, beq.Cond.Matches(sr))
		assert.NotEqual(beq.Cond.Matches(sr), bne.Cond.Matches(sr))
	}

	// Only the condition code bits count.
	assert.True(beq.Cond.Matches(CC_Z | 0x100))
}

func TestDefines(t *testing.T) {
	assert := assert.New(t)

	defines := maps.Collect(Defines())

	table := map[string]Word{
		"LDC":        I_LDC,
		"ADD":        BI_ADD,
		"BEQ":        BR_EQ,
		"PR_INT":     TR_PR_INT,
		"FILE_CLOSE": TR_FILE_CLOSE,
		"MP":         Word(MP),
		"R2":         Word(MP),
		"R7":         Word(R7),
		"TRUE":       CONST_TRUE,
		"FALSE":      CONST_FALSE,
	}

	for name, value := range table {
		assert.Equal(value, defines[name], name)
	}
}
