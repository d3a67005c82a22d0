package session

import (
	"time"

	"github.com/gfscan/gfscan/scan"
)

type EventKind uint8

const (
	Banner EventKind = iota
	StatusUpdate
	PortResult
	Error
	SummaryComplete
)

func (k EventKind) String() string {
	switch k {
	case Banner:
		return "banner"
	case StatusUpdate:
		return "status"
	case PortResult:
		return "port"
	case Error:
		return "error"
	case SummaryComplete:
		return "summary"
	}
	return "unknown"
}

type ErrorKind uint8

const (
	ErrorNone ErrorKind = iota
	ErrorInvalidInput
	ErrorHostNotFound
	ErrorHostUnresponsive
	ErrorSessionUsed
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorInvalidInput:
		return "InvalidInput"
	case ErrorHostNotFound:
		return "HostNotFound"
	case ErrorHostUnresponsive:
		return "HostUnresponsive"
	case ErrorSessionUsed:
		return "SessionUsed"
	}
	return "None"
}

// Progress counts ports delivered so far out of the requested total.
type Progress struct {
	Done  int
	Total int
}

// Event is one line of the session's output stream. Only the fields relevant
// to Kind are set.
type Event struct {
	Kind EventKind
	Text string

	Result   scan.PortResult
	Progress *Progress

	ErrorKind ErrorKind
	Err       error

	Start   time.Time
	End     time.Time
	Elapsed time.Duration
}
