package errors

import (
	"errors"
	"fmt"
)

const callStackDepth = 10

type DetailError interface {
	error
	ErrCoder
	CallStacker
	GetRoot() error
}

func NewErr(errmsg string) error {
	return errors.New(errmsg)
}

// NewDetailErr attaches code and a call stack to err. The message, if not
// empty, is prepended to the root error message. Wrapping a detail error again
// keeps its root and call stack but takes the new code.
func NewDetailErr(err error, errcode ErrCode, errmsg string) DetailError {
	if err == nil {
		return nil
	}

	e, ok := err.(detailError)
	if !ok {
		e.root = err
		e.errmsg = err.Error()
		e.callstack = getCallStack(1, callStackDepth)
	}
	e.code = errcode
	if errmsg != "" {
		e.errmsg = errmsg + ": " + e.errmsg
	}

	return e
}

// NewDetailErrf is NewDetailErr with a formatted root error.
func NewDetailErrf(errcode ErrCode, format string, a ...interface{}) DetailError {
	return NewDetailErr(fmt.Errorf(format, a...), errcode, "")
}

func RootErr(err error) error {
	if err, ok := err.(DetailError); ok {
		return err.GetRoot()
	}
	return err
}

type detailError struct {
	errmsg    string
	callstack *CallStack
	root      error
	code      ErrCode
}

func (e detailError) Error() string {
	return e.errmsg
}

func (e detailError) GetErrCode() ErrCode {
	return e.code
}

func (e detailError) GetRoot() error {
	return e.root
}

func (e detailError) Unwrap() error {
	return e.root
}

// Is lets errors.Is match a detail error against its bare code.
func (e detailError) Is(target error) bool {
	code, ok := target.(ErrCode)
	return ok && code == e.code
}

func (e detailError) GetCallStack() *CallStack {
	return e.callstack
}
