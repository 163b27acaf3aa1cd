package errors

import (
	"bytes"
	"fmt"
	"runtime"
)

type CallStacker interface {
	GetCallStack() *CallStack
}

type CallStack struct {
	Stacks []uintptr
}

func GetCallStacks(err error) *CallStack {
	if err, ok := err.(CallStacker); ok {
		return err.GetCallStack()
	}
	return nil
}

func CallStacksString(call *CallStack) string {
	if call == nil {
		return ""
	}

	buf := bytes.Buffer{}
	frames := runtime.CallersFrames(call.Stacks)
	for {
		f, more := frames.Next()
		fmt.Fprintf(&buf, "    %s\n        %s:%d\n", f.Function, f.File, f.Line)
		if !more {
			break
		}
	}
	return buf.String()
}

func getCallStack(skip int, depth int) *CallStack {
	stacks := make([]uintptr, depth)
	n := runtime.Callers(skip+2, stacks)
	return &CallStack{Stacks: stacks[:n]}
}
