package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/types/known/emptypb"
)

func TestLogWireRoundTrip(t *testing.T) {
	in := &Log{
		Stack: []*BacktraceData{
			{Name: "main.outer", FilePath: "/src/main.go", LineNumber: 10, Code: "outer()"},
			{Name: "main.inner", FilePath: "/src/main.go", LineNumber: 20, ColumnNumber: 4, Code: "inner()"},
		},
		LineNumber:  20,
		CodeSnippet: map[uint32]string{19: "", 20: "inner()", 21: "}"},
		Message:     "hello",
		MessageType: "string",
		FileName:    "/src/main.go",
		Address:     "127.0.0.1",
		Language:    "Go",
		Warnings:    []string{"w1", "w2"},
	}

	b, err := in.MarshalWire()
	require.NoError(t, err)

	out := new(Log)
	require.NoError(t, out.UnmarshalWire(b))
	assert.Equal(t, in, out)
}

func TestLogWireFieldNumbers(t *testing.T) {
	b, err := (&Log{UUID: "id", LineNumber: 7, Language: "Go"}).MarshalWire()
	require.NoError(t, err)

	var seen []protowire.Number
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		require.Positive(t, n)
		b = b[n:]
		seen = append(seen, num)
		n = protowire.ConsumeFieldValue(num, typ, b)
		require.Positive(t, n)
		b = b[n:]
	}
	assert.Equal(t, []protowire.Number{1, 3, 9}, seen)
}

func TestUnmarshalSkipsUnknownFields(t *testing.T) {
	var b []byte
	b = protowire.AppendTag(b, 99, protowire.VarintType)
	b = protowire.AppendVarint(b, 5)
	b = protowire.AppendTag(b, rrMessage, protowire.BytesType)
	b = protowire.AppendString(b, "nope")
	b = protowire.AppendTag(b, rrStatus, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(RequestStatusError))

	var r RequestResult
	require.NoError(t, r.UnmarshalWire(b))
	assert.Equal(t, RequestResult{Message: "nope", Status: RequestStatusError}, r)
}

func TestUnmarshalTruncated(t *testing.T) {
	b, err := (&BacktraceData{Name: "main.main"}).MarshalWire()
	require.NoError(t, err)

	var d BacktraceData
	assert.Error(t, d.UnmarshalWire(b[:len(b)-2]))
}

func TestCodec(t *testing.T) {
	c := Codec{}
	assert.Equal(t, "proto", c.Name())

	b, err := c.Marshal(&emptypb.Empty{})
	require.NoError(t, err)
	assert.Empty(t, b)

	_, err = c.Marshal(struct{}{})
	assert.Error(t, err)

	b, err = c.Marshal(&ServerDetails{Host: "127.0.0.1", Port: 3002, RequiresAuthentication: true})
	require.NoError(t, err)
	var sd ServerDetails
	require.NoError(t, c.Unmarshal(b, &sd))
	assert.Equal(t, ServerDetails{Host: "127.0.0.1", Port: 3002, RequiresAuthentication: true}, sd)
}
