package schema

import (
	"fmt"
	"sort"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers of the CodeCTRL protobuf definitions.
const (
	logUUID        protowire.Number = 1
	logStack       protowire.Number = 2
	logLineNumber  protowire.Number = 3
	logCodeSnippet protowire.Number = 4
	logMessage     protowire.Number = 5
	logMessageType protowire.Number = 6
	logFileName    protowire.Number = 7
	logAddress     protowire.Number = 8
	logLanguage    protowire.Number = 9
	logWarnings    protowire.Number = 10

	btName         protowire.Number = 1
	btFilePath     protowire.Number = 2
	btLineNumber   protowire.Number = 3
	btColumnNumber protowire.Number = 4
	btCode         protowire.Number = 5

	mapKey   protowire.Number = 1
	mapValue protowire.Number = 2

	rrMessage    protowire.Number = 1
	rrStatus     protowire.Number = 2
	rrAuthStatus protowire.Number = 3

	sdHost                   protowire.Number = 1
	sdPort                   protowire.Number = 2
	sdUptime                 protowire.Number = 3
	sdRequiresAuthentication protowire.Number = 4
)

func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendMessage(b []byte, num protowire.Number, m []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, m)
}

// fieldFunc handles one decoded field and returns the number of bytes it
// consumed from b, or a negative protowire error code.
type fieldFunc func(num protowire.Number, typ protowire.Type, b []byte) int

func consumeFields(b []byte, fn fieldFunc) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		m := fn(num, typ, b)
		if m < 0 {
			return protowire.ParseError(m)
		}
		b = b[m:]
	}
	return nil
}

func consumeString(typ protowire.Type, b []byte, dst *string) int {
	if typ != protowire.BytesType {
		return -1
	}
	v, n := protowire.ConsumeString(b)
	if n >= 0 {
		*dst = v
	}
	return n
}

func consumeVarint(typ protowire.Type, b []byte, dst *uint64) int {
	if typ != protowire.VarintType {
		return -1
	}
	v, n := protowire.ConsumeVarint(b)
	if n >= 0 {
		*dst = v
	}
	return n
}

// MarshalWire encodes the frame in protobuf wire format.
func (d *BacktraceData) MarshalWire() ([]byte, error) {
	var b []byte
	b = appendString(b, btName, d.Name)
	b = appendString(b, btFilePath, d.FilePath)
	b = appendVarint(b, btLineNumber, uint64(d.LineNumber))
	b = appendVarint(b, btColumnNumber, uint64(d.ColumnNumber))
	b = appendString(b, btCode, d.Code)
	return b, nil
}

// UnmarshalWire decodes a protobuf encoded frame into d.
func (d *BacktraceData) UnmarshalWire(b []byte) error {
	*d = BacktraceData{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		var v uint64
		switch num {
		case btName:
			return consumeString(typ, b, &d.Name)
		case btFilePath:
			return consumeString(typ, b, &d.FilePath)
		case btLineNumber:
			n := consumeVarint(typ, b, &v)
			d.LineNumber = uint32(v)
			return n
		case btColumnNumber:
			n := consumeVarint(typ, b, &v)
			d.ColumnNumber = uint32(v)
			return n
		case btCode:
			return consumeString(typ, b, &d.Code)
		}
		return protowire.ConsumeFieldValue(num, typ, b)
	})
}

// MarshalWire encodes the log in protobuf wire format. Snippet entries are
// written in ascending line order so the encoding is deterministic.
func (l *Log) MarshalWire() ([]byte, error) {
	var b []byte
	b = appendString(b, logUUID, l.UUID)
	for _, frame := range l.Stack {
		if frame == nil {
			continue
		}
		m, err := frame.MarshalWire()
		if err != nil {
			return nil, err
		}
		b = appendMessage(b, logStack, m)
	}
	b = appendVarint(b, logLineNumber, uint64(l.LineNumber))

	lines := make([]uint32, 0, len(l.CodeSnippet))
	for line := range l.CodeSnippet {
		lines = append(lines, line)
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i] < lines[j] })
	for _, line := range lines {
		var entry []byte
		// map entries always carry both key and value
		entry = protowire.AppendTag(entry, mapKey, protowire.VarintType)
		entry = protowire.AppendVarint(entry, uint64(line))
		entry = protowire.AppendTag(entry, mapValue, protowire.BytesType)
		entry = protowire.AppendString(entry, l.CodeSnippet[line])
		b = appendMessage(b, logCodeSnippet, entry)
	}

	b = appendString(b, logMessage, l.Message)
	b = appendString(b, logMessageType, l.MessageType)
	b = appendString(b, logFileName, l.FileName)
	b = appendString(b, logAddress, l.Address)
	b = appendString(b, logLanguage, l.Language)
	for _, w := range l.Warnings {
		b = protowire.AppendTag(b, logWarnings, protowire.BytesType)
		b = protowire.AppendString(b, w)
	}
	return b, nil
}

// UnmarshalWire decodes a protobuf encoded log into l.
func (l *Log) UnmarshalWire(b []byte) error {
	*l = Log{}
	var nested error
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case logUUID:
			return consumeString(typ, b, &l.UUID)
		case logStack:
			if typ != protowire.BytesType {
				return -1
			}
			m, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return n
			}
			frame := new(BacktraceData)
			if nested = frame.UnmarshalWire(m); nested != nil {
				return -1
			}
			l.Stack = append(l.Stack, frame)
			return n
		case logLineNumber:
			var v uint64
			n := consumeVarint(typ, b, &v)
			l.LineNumber = uint32(v)
			return n
		case logCodeSnippet:
			if typ != protowire.BytesType {
				return -1
			}
			m, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return n
			}
			var (
				key   uint64
				value string
			)
			nested = consumeFields(m, func(num protowire.Number, typ protowire.Type, b []byte) int {
				switch num {
				case mapKey:
					return consumeVarint(typ, b, &key)
				case mapValue:
					return consumeString(typ, b, &value)
				}
				return protowire.ConsumeFieldValue(num, typ, b)
			})
			if nested != nil {
				return -1
			}
			if l.CodeSnippet == nil {
				l.CodeSnippet = make(map[uint32]string)
			}
			l.CodeSnippet[uint32(key)] = value
			return n
		case logMessage:
			return consumeString(typ, b, &l.Message)
		case logMessageType:
			return consumeString(typ, b, &l.MessageType)
		case logFileName:
			return consumeString(typ, b, &l.FileName)
		case logAddress:
			return consumeString(typ, b, &l.Address)
		case logLanguage:
			return consumeString(typ, b, &l.Language)
		case logWarnings:
			var w string
			n := consumeString(typ, b, &w)
			if n >= 0 {
				l.Warnings = append(l.Warnings, w)
			}
			return n
		}
		return protowire.ConsumeFieldValue(num, typ, b)
	})
	if nested != nil {
		return fmt.Errorf("decode log: %w", nested)
	}
	return err
}

// MarshalWire encodes the result in protobuf wire format.
func (r *RequestResult) MarshalWire() ([]byte, error) {
	var b []byte
	b = appendString(b, rrMessage, r.Message)
	b = appendVarint(b, rrStatus, uint64(r.Status))
	if r.AuthStatus != nil {
		b = appendMessage(b, rrAuthStatus, r.AuthStatus)
	}
	return b, nil
}

// UnmarshalWire decodes a protobuf encoded result into r.
func (r *RequestResult) UnmarshalWire(b []byte) error {
	*r = RequestResult{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case rrMessage:
			return consumeString(typ, b, &r.Message)
		case rrStatus:
			var v uint64
			n := consumeVarint(typ, b, &v)
			r.Status = RequestStatus(int32(v))
			return n
		case rrAuthStatus:
			if typ != protowire.BytesType {
				return -1
			}
			m, n := protowire.ConsumeBytes(b)
			if n >= 0 {
				r.AuthStatus = append([]byte{}, m...)
			}
			return n
		}
		return protowire.ConsumeFieldValue(num, typ, b)
	})
}

// MarshalWire encodes the details in protobuf wire format.
func (s *ServerDetails) MarshalWire() ([]byte, error) {
	var b []byte
	b = appendString(b, sdHost, s.Host)
	b = appendVarint(b, sdPort, uint64(s.Port))
	b = appendVarint(b, sdUptime, s.Uptime)
	if s.RequiresAuthentication {
		b = appendVarint(b, sdRequiresAuthentication, 1)
	}
	return b, nil
}

// UnmarshalWire decodes protobuf encoded details into s.
func (s *ServerDetails) UnmarshalWire(b []byte) error {
	*s = ServerDetails{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		var v uint64
		switch num {
		case sdHost:
			return consumeString(typ, b, &s.Host)
		case sdPort:
			n := consumeVarint(typ, b, &v)
			s.Port = uint32(v)
			return n
		case sdUptime:
			return consumeVarint(typ, b, &s.Uptime)
		case sdRequiresAuthentication:
			n := consumeVarint(typ, b, &v)
			s.RequiresAuthentication = v != 0
			return n
		}
		return protowire.ConsumeFieldValue(num, typ, b)
	})
}
