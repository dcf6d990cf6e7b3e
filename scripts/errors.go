package scripts

import "fmt"

type ScriptError struct {
	Op      string
	Script  string
	Err     error
	Message string
	Stderr  string
}

func (e *ScriptError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s %s (%v)", e.Op, e.Script, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s %s", e.Op, e.Script, e.Message)
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}

func newScriptError(op, script string, err error, message string) *ScriptError {
	return &ScriptError{
		Op:      op,
		Script:  script,
		Err:     err,
		Message: message,
	}
}
