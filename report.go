package schemavalidator

import (
	"bytes"

	"github.com/goccy/go-json"
)

// Report is an ordered, leveled collection of processing messages.
//
// A report has two thresholds. Messages below the log level are not recorded.
// Messages at or above the exception threshold are not recorded either:
// logging one returns a *ProcessingError carrying it, and the caller is
// expected to stop and propagate that error.
//
// Reports are call-local. A Report is not safe for concurrent mutation; give
// each validation pass (and each isolated sub-pass) its own report.
type Report struct {
	logLevel  LogLevel
	threshold LogLevel
	highest   LogLevel
	messages  []*Message
}

// ReportOption configures a Report.
type ReportOption func(*Report)

// WithReportLogLevel sets the minimum level a message needs to be recorded.
func WithReportLogLevel(level LogLevel) ReportOption {
	return func(r *Report) {
		r.logLevel = level
	}
}

// WithReportThreshold sets the exception threshold.
// Use LevelNone to never abort.
func WithReportThreshold(level LogLevel) ReportOption {
	return func(r *Report) {
		r.threshold = level
	}
}

// NewReport creates an empty report. By default it records info and above
// and aborts on fatal messages.
func NewReport(opts ...ReportOption) *Report {
	r := &Report{
		logLevel:  LevelInfo,
		threshold: LevelFatal,
		highest:   LevelDebug,
		messages:  make([]*Message, 0, 8),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Child returns a fresh, empty report with the same log level and threshold.
func (r *Report) Child(opts ...ReportOption) *Report {
	all := make([]ReportOption, 0, len(opts)+2)
	all = append(all, WithReportLogLevel(r.logLevel), WithReportThreshold(r.threshold))
	all = append(all, opts...)
	return NewReport(all...)
}

// LogLevel returns the minimum recorded level.
func (r *Report) LogLevel() LogLevel {
	return r.logLevel
}

// Threshold returns the exception threshold.
func (r *Report) Threshold() LogLevel {
	return r.threshold
}

// Log logs msg at level. It returns a *ProcessingError, without recording the
// message, when level reaches the exception threshold.
func (r *Report) Log(level LogLevel, msg *Message) error {
	stamped := msg.Clone().SetLevel(level)
	if level > r.highest {
		r.highest = level
	}
	if level >= r.threshold {
		return NewProcessingError(stamped)
	}
	if level >= r.logLevel {
		r.messages = append(r.messages, stamped)
	}
	return nil
}

// Debug logs msg at debug level.
func (r *Report) Debug(msg *Message) error {
	return r.Log(LevelDebug, msg)
}

// Info logs msg at info level.
func (r *Report) Info(msg *Message) error {
	return r.Log(LevelInfo, msg)
}

// Warn logs msg at warning level.
func (r *Report) Warn(msg *Message) error {
	return r.Log(LevelWarning, msg)
}

// Error logs msg at error level.
func (r *Report) Error(msg *Message) error {
	return r.Log(LevelError, msg)
}

// Fatal logs msg at fatal level.
func (r *Report) Fatal(msg *Message) error {
	return r.Log(LevelFatal, msg)
}

// IsSuccess returns true if nothing at error level or above was ever logged.
// Once false, it stays false.
func (r *Report) IsSuccess() bool {
	return r.highest < LevelError
}

// Len returns the number of recorded messages.
func (r *Report) Len() int {
	return len(r.messages)
}

// Messages returns the recorded messages in order. The slice is a copy;
// the messages are shared and must not be modified.
func (r *Report) Messages() []*Message {
	out := make([]*Message, len(r.messages))
	copy(out, r.messages)
	return out
}

// ErrorCount returns the number of recorded error and fatal messages.
func (r *Report) ErrorCount() int {
	count := 0
	for _, m := range r.messages {
		if m.level.IsError() {
			count++
		}
	}
	return count
}

// Errors returns the recorded error and fatal messages.
func (r *Report) Errors() []*Message {
	var errs []*Message
	for _, m := range r.messages {
		if m.level.IsError() {
			errs = append(errs, m)
		}
	}
	return errs
}

// MergeWith logs every message of other into r, at its original level and
// in order. It stops at, and returns, the first threshold abort.
func (r *Report) MergeWith(other *Report) error {
	if other == nil {
		return nil
	}
	if other.highest > r.highest {
		r.highest = other.highest
	}
	for _, m := range other.messages {
		if err := r.Log(m.level, m); err != nil {
			return err
		}
	}
	return nil
}

// AsStructuredValue returns independent copies of the recorded messages,
// suitable for embedding into another message as a field value.
func (r *Report) AsStructuredValue() []*Message {
	out := make([]*Message, len(r.messages))
	for i, m := range r.messages {
		out[i] = m.Clone()
	}
	return out
}

// MarshalJSON renders the report as an array of message records.
func (r *Report) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, m := range r.messages {
		if i > 0 {
			buf.WriteByte(',')
		}
		b, err := json.Marshal(m)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// String renders one message per line.
func (r *Report) String() string {
	if len(r.messages) == 0 {
		if r.IsSuccess() {
			return "success"
		}
		return "failure"
	}
	var buf bytes.Buffer
	for i, m := range r.messages {
		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(m.String())
	}
	return buf.String()
}
