package io

import (
	"errors"

	"github.com/ezrec/ssm/translate"
)

var f = translate.From

var (
	// File system errors
	ErrFileClosed  = errors.New(f("file closed"))
	ErrFileInvalid = errors.New(f("file name invalid"))
)
