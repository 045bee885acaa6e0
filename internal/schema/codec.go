package schema

import (
	"fmt"

	"google.golang.org/protobuf/proto"
)

// WireMessage is implemented by every schema type.
type WireMessage interface {
	MarshalWire() ([]byte, error)
	UnmarshalWire([]byte) error
}

// Codec is a gRPC codec speaking the protobuf wire format for the schema
// types. Well-known protobuf messages such as emptypb.Empty go through
// proto.Marshal. It registers under the "proto" content subtype so the bytes
// on the wire are what a protoc generated peer expects.
type Codec struct{}

// Name implements encoding.Codec.
func (Codec) Name() string { return "proto" }

// Marshal implements encoding.Codec.
func (Codec) Marshal(v any) ([]byte, error) {
	switch m := v.(type) {
	case WireMessage:
		return m.MarshalWire()
	case proto.Message:
		return proto.Marshal(m)
	default:
		return nil, fmt.Errorf("schema codec: cannot marshal %T", v)
	}
}

// Unmarshal implements encoding.Codec.
func (Codec) Unmarshal(data []byte, v any) error {
	switch m := v.(type) {
	case WireMessage:
		return m.UnmarshalWire(data)
	case proto.Message:
		return proto.Unmarshal(data, m)
	default:
		return fmt.Errorf("schema codec: cannot unmarshal into %T", v)
	}
}
