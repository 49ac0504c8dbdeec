// Hand-maintained bindings for segmenter.proto, wire-compatible with the
// legacy protoc-gen-go output so the service builds without a protoc step.

package proto

import (
	context "context"

	proto "github.com/golang/protobuf/proto"
	grpc "google.golang.org/grpc"
)

type SegmentRequest struct {
	RequestId string `protobuf:"bytes,1,opt,name=request_id,json=requestId,proto3" json:"request_id,omitempty"`
	Tensor    []byte `protobuf:"bytes,2,opt,name=tensor,proto3" json:"tensor,omitempty"`
	Width     int32  `protobuf:"varint,3,opt,name=width,proto3" json:"width,omitempty"`
	Height    int32  `protobuf:"varint,4,opt,name=height,proto3" json:"height,omitempty"`
}

func (m *SegmentRequest) Reset()         { *m = SegmentRequest{} }
func (m *SegmentRequest) String() string { return proto.CompactTextString(m) }
func (*SegmentRequest) ProtoMessage()    {}

func (m *SegmentRequest) GetRequestId() string {
	if m != nil {
		return m.RequestId
	}
	return ""
}

func (m *SegmentRequest) GetTensor() []byte {
	if m != nil {
		return m.Tensor
	}
	return nil
}

func (m *SegmentRequest) GetWidth() int32 {
	if m != nil {
		return m.Width
	}
	return 0
}

func (m *SegmentRequest) GetHeight() int32 {
	if m != nil {
		return m.Height
	}
	return 0
}

type SegmentResponse struct {
	Labels       []byte `protobuf:"bytes,1,opt,name=labels,proto3" json:"labels,omitempty"`
	Width        int32  `protobuf:"varint,2,opt,name=width,proto3" json:"width,omitempty"`
	Height       int32  `protobuf:"varint,3,opt,name=height,proto3" json:"height,omitempty"`
	ModelVersion string `protobuf:"bytes,4,opt,name=model_version,json=modelVersion,proto3" json:"model_version,omitempty"`
}

func (m *SegmentResponse) Reset()         { *m = SegmentResponse{} }
func (m *SegmentResponse) String() string { return proto.CompactTextString(m) }
func (*SegmentResponse) ProtoMessage()    {}

func (m *SegmentResponse) GetLabels() []byte {
	if m != nil {
		return m.Labels
	}
	return nil
}

func (m *SegmentResponse) GetWidth() int32 {
	if m != nil {
		return m.Width
	}
	return 0
}

func (m *SegmentResponse) GetHeight() int32 {
	if m != nil {
		return m.Height
	}
	return 0
}

func (m *SegmentResponse) GetModelVersion() string {
	if m != nil {
		return m.ModelVersion
	}
	return ""
}

// SegmenterClient is the client API for the Segmenter service.
type SegmenterClient interface {
	Segment(ctx context.Context, in *SegmentRequest, opts ...grpc.CallOption) (*SegmentResponse, error)
}

type segmenterClient struct {
	cc grpc.ClientConnInterface
}

func NewSegmenterClient(cc grpc.ClientConnInterface) SegmenterClient {
	return &segmenterClient{cc}
}

func (c *segmenterClient) Segment(ctx context.Context, in *SegmentRequest, opts ...grpc.CallOption) (*SegmentResponse, error) {
	out := new(SegmentResponse)
	err := c.cc.Invoke(ctx, "/colovision.Segmenter/Segment", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}
