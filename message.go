package schemavalidator

import (
	"bytes"
	"fmt"
	"strings"
)

// Standard message field names, rendered in this order when present.
const (
	FieldSchema   = "schema"
	FieldInstance = "instance"
	FieldDomain   = "domain"
	FieldKeyword  = "keyword"
	FieldMessage  = "message"
)

// DomainValidation is the domain of messages emitted while validating an instance.
const DomainValidation = "validation"

// Message is a single leveled processing message.
//
// A Message is built fluently and then handed to a Report, which stamps its
// level and stores a copy:
//
//	msg := sv.NewMessage().
//	    Keyword("type").
//	    Msg(sv.MsgTypeNoMatch, "instance type does not match").
//	    Put("expected", []string{"string"})
//	err := report.Error(msg)
type Message struct {
	level  LogLevel
	key    string
	fields *Fields
}

// NewMessage creates an empty message at info level.
func NewMessage() *Message {
	return &Message{level: LevelInfo, fields: NewFields()}
}

// Level returns the level the message was logged at.
func (m *Message) Level() LogLevel {
	return m.level
}

// SetLevel sets the level; reports call this when the message is logged.
func (m *Message) SetLevel(level LogLevel) *Message {
	m.level = level
	return m
}

// Key returns the short message key identifying the kind of message.
func (m *Message) Key() string {
	return m.key
}

// Text returns the human-readable message text.
func (m *Message) Text() string {
	if v, ok := m.fields.Get(FieldMessage); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return m.key
}

// Schema sets the schema location fields.
func (m *Message) Schema(location *Fields) *Message {
	m.fields.Put(FieldSchema, location)
	return m
}

// Instance sets the instance location fields.
func (m *Message) Instance(location *Fields) *Message {
	m.fields.Put(FieldInstance, location)
	return m
}

// Domain sets the processing domain.
func (m *Message) Domain(domain string) *Message {
	m.fields.Put(FieldDomain, domain)
	return m
}

// Keyword sets the keyword that produced the message.
func (m *Message) Keyword(keyword string) *Message {
	m.fields.Put(FieldKeyword, keyword)
	return m
}

// Msg sets the message key and its rendered text.
func (m *Message) Msg(key, text string) *Message {
	m.key = key
	m.fields.Put(FieldMessage, text)
	return m
}

// Msgf sets the message key and formats its text.
func (m *Message) Msgf(key, format string, args ...any) *Message {
	return m.Msg(key, fmt.Sprintf(format, args...))
}

// Put sets an arbitrary named field.
func (m *Message) Put(name string, value any) *Message {
	m.fields.Put(name, value)
	return m
}

// Get returns a named field.
func (m *Message) Get(name string) (any, bool) {
	return m.fields.Get(name)
}

// Fields returns a copy of the message fields, without the level.
func (m *Message) Fields() *Fields {
	return m.fields.Clone()
}

// Clone returns an independent copy of the message.
func (m *Message) Clone() *Message {
	return &Message{level: m.level, key: m.key, fields: m.fields.Clone()}
}

// String returns "level: text" followed by the keyword and instance pointer when known.
func (m *Message) String() string {
	var b strings.Builder
	b.WriteString(m.level.String())
	b.WriteString(": ")
	b.WriteString(m.Text())
	if kw, ok := m.fields.Get(FieldKeyword); ok {
		fmt.Fprintf(&b, " [%v]", kw)
	}
	if inst, ok := m.fields.Get(FieldInstance); ok {
		if loc, ok := inst.(*Fields); ok {
			if p, ok := loc.Get("pointer"); ok {
				fmt.Fprintf(&b, " at %q", p)
			}
		}
	}
	return b.String()
}

// MarshalJSON renders {"level": ..., <fields in insertion order>}.
func (m *Message) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"level":"`)
	buf.WriteString(m.level.String())
	buf.WriteByte('"')
	if err := m.fields.writeMembers(&buf, true); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
