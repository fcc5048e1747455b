package chat

import (
	"fmt"

	"google.golang.org/grpc/encoding"
	grpcproto "google.golang.org/grpc/encoding/proto"
	"google.golang.org/grpc/mem"
)

// Frame is a message that encodes itself in the protobuf wire format.
type Frame interface {
	Marshal() ([]byte, error)
	Unmarshal(b []byte) error
}

func init() {
	encoding.RegisterCodecV2(Codec{fallback: encoding.GetCodecV2(grpcproto.Name)})
}

// Codec replaces the default "proto" codec. Frames are encoded by
// themselves, every other value goes to the stock protobuf codec, so plain
// protobuf clients and generated messages keep working.
type Codec struct {
	fallback encoding.CodecV2
}

func (c Codec) Marshal(v any) (mem.BufferSlice, error) {
	frame, ok := v.(Frame)
	if !ok {
		if c.fallback == nil {
			return nil, fmt.Errorf("chat codec: cannot marshal %T", v)
		}
		return c.fallback.Marshal(v)
	}
	data, err := frame.Marshal()
	if err != nil {
		return nil, err
	}
	return mem.BufferSlice{mem.SliceBuffer(data)}, nil
}

func (c Codec) Unmarshal(data mem.BufferSlice, v any) error {
	frame, ok := v.(Frame)
	if !ok {
		if c.fallback == nil {
			return fmt.Errorf("chat codec: cannot unmarshal into %T", v)
		}
		return c.fallback.Unmarshal(data, v)
	}
	return frame.Unmarshal(data.Materialize())
}

func (Codec) Name() string { return grpcproto.Name }
