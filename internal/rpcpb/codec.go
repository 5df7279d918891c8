package rpcpb

import (
	"fmt"

	"google.golang.org/grpc/encoding"
	"google.golang.org/protobuf/encoding/protowire"
)

// registerCodec installs codec as the default ("proto") content-subtype for
// every gRPC connection in this process. It must run after grpc's own
// encoding/proto package has registered its default, which Go's import-order
// guarantees since this package imports google.golang.org/grpc.
func registerCodec() {
	encoding.RegisterCodec(codec{})
}

// wireMessage is implemented by every message in this package. The method
// names follow the vtprotobuf convention (MarshalVT/UnmarshalVT) rather than
// the reflection-based proto.Message interface, since these messages carry no
// generated descriptor.
type wireMessage interface {
	MarshalVT() []byte
	UnmarshalVT([]byte) error
}

// codec is a grpc/encoding.Codec that marshals messages directly to and from
// protobuf wire bytes via protowire, without going through proto.Message
// reflection. Registering it under the name "proto" makes it the transport's
// default codec, so both ends of the gRPC connection speak standard protobuf
// wire format without any generated *.pb.go descriptor.
type codec struct{}

func (codec) Marshal(v interface{}) ([]byte, error) {
	m, ok := v.(wireMessage)
	if !ok {
		return nil, fmt.Errorf("rpcpb: %T does not implement wireMessage", v)
	}
	return m.MarshalVT(), nil
}

func (codec) Unmarshal(data []byte, v interface{}) error {
	m, ok := v.(wireMessage)
	if !ok {
		return fmt.Errorf("rpcpb: %T does not implement wireMessage", v)
	}
	return m.UnmarshalVT(data)
}

func (codec) Name() string { return "proto" }

func appendStringField(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

func appendInt64Field(b []byte, num protowire.Number, v int64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(v))
}

func appendBoolField(b []byte, num protowire.Number, v bool) []byte {
	if !v {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, 1)
}

func appendMessageField(b []byte, num protowire.Number, msg wireMessage) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, msg.MarshalVT())
}

// consumeFields walks every top-level field in b, dispatching known field
// numbers to set and skipping anything else (forward-compatible with
// additional fields a future sender might add).
func consumeFields(b []byte, set func(num protowire.Number, typ protowire.Type, b []byte) (n int, err error)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		consumed, err := set(num, typ, b)
		if err != nil {
			return err
		}
		if consumed >= 0 {
			b = b[consumed:]
			continue
		}

		n = protowire.ConsumeFieldValue(num, typ, b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
	}
	return nil
}

func consumeString(b []byte) (string, int, error) {
	v, n := protowire.ConsumeString(b)
	if n < 0 {
		return "", 0, protowire.ParseError(n)
	}
	return v, n, nil
}

func consumeInt64(b []byte) (int64, int, error) {
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, 0, protowire.ParseError(n)
	}
	return int64(v), n, nil
}

func consumeBool(b []byte) (bool, int, error) {
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return false, 0, protowire.ParseError(n)
	}
	return v != 0, n, nil
}
