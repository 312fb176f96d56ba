package domain

// MessagingError is the single error kind surfaced to callers. Transport
// failures, cipher failures, malformed records and rejected (suspected
// duplicate) records all arrive as a MessagingError; the underlying cause,
// if any, is reachable through errors.Unwrap.
type MessagingError struct {
	Op  string // operation that failed, e.g. "send message"
	Msg string // what went wrong
	Err error  // underlying cause, nil for protocol-level rejections
}

func (e *MessagingError) Error() string {
	s := e.Op + ": " + e.Msg
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *MessagingError) Unwrap() error { return e.Err }
