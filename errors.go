package schemavalidator

import (
	"errors"
	"fmt"
)

// ProcessingError aborts a processing pass. It is returned by a Report when
// a message reaches the report's exception threshold, and carries that
// message. The message is not recorded in the report that raised it.
type ProcessingError struct {
	Message *Message
}

// NewProcessingError wraps msg.
func NewProcessingError(msg *Message) *ProcessingError {
	return &ProcessingError{Message: msg}
}

func (e *ProcessingError) Error() string {
	if e.Message == nil {
		return "processing aborted"
	}
	return e.Message.Text()
}

// StructuralError reports a schema or instance tree descent to a location
// that does not exist. It indicates an inconsistency between a digest and its
// schema and is never expected for a well-formed schema.
type StructuralError struct {
	// Pointer is the location descent started from.
	Pointer string
	// Token is the reference token that could not be resolved.
	Token string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("structural error: token %q does not resolve under %q", e.Token, e.Pointer)
}

// ErrUnknownDraft is returned when no keyword library is registered for a draft.
var ErrUnknownDraft = errors.New("unknown schema draft")

// AsMessage converts err into a fatal message. Processing errors yield
// (a copy of) their own message; any other error is described by its text.
func AsMessage(err error) *Message {
	var perr *ProcessingError
	if errors.As(err, &perr) && perr.Message != nil {
		return perr.Message.Clone().SetLevel(LevelFatal)
	}
	msg := NewMessage().SetLevel(LevelFatal)
	var serr *StructuralError
	if errors.As(err, &serr) {
		msg.Msg(MsgStructural, err.Error()).Put("pointer", serr.Pointer).Put("token", serr.Token)
		return msg
	}
	return msg.Msg(MsgProcessing, err.Error())
}
