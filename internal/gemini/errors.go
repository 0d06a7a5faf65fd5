package gemini

import "fmt"

// UserInstruction is the message shown to the end user when a request fails.
const UserInstruction = "An error occurred during ping to Gemini. Please refresh your browser and try again."

// PingError is returned by the adapter for every failure. It carries the
// user-facing instruction followed by the original error message.
type PingError struct {
	Err error
}

func (e *PingError) Error() string {
	return fmt.Sprintf("%s\n %s", UserInstruction, e.Err.Error())
}

func (e *PingError) Unwrap() error {
	return e.Err
}
