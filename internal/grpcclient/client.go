package grpcclient

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/BobKimani/Colovision-CRC-Detection/internal/logging"
	"github.com/BobKimani/Colovision-CRC-Detection/internal/segmenter"
	proto "github.com/BobKimani/Colovision-CRC-Detection/proto"
)

// DialSegmenter returns a ready-to-use gRPC client for the model-serving
// process.
func DialSegmenter(ctx context.Context, addr string, logger *zap.Logger) (segmenter.Client, *grpc.ClientConn, error) {
	dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	conn, err := grpc.DialContext(
		dialCtx,
		addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithBlock(),
	)
	if err != nil {
		wrapped := logging.NewOperationError("grpcclient.dial_segmenter", "", err)
		logger.Error("failed to dial segmenter", zap.Error(wrapped), zap.String("addr", addr))
		return nil, nil, wrapped
	}
	client := proto.NewSegmenterClient(conn)
	return &grpcSegmenter{client: client, logger: logger}, conn, nil
}

type grpcSegmenter struct {
	client proto.SegmenterClient
	logger *zap.Logger
}

func (g *grpcSegmenter) Segment(ctx context.Context, requestID string, tensor []byte) (*segmenter.Result, error) {
	resp, err := g.client.Segment(ctx, &proto.SegmentRequest{
		RequestId: requestID,
		Tensor:    tensor,
		Width:     256,
		Height:    256,
	})
	if err != nil {
		wrapped := logging.NewOperationError("grpcclient.segment", requestID, err)
		g.logger.Error("segmenter call failed", zap.Error(wrapped), zap.String("request_id", requestID))
		return nil, wrapped
	}

	w, h := int(resp.GetWidth()), int(resp.GetHeight())
	labels := resp.GetLabels()
	if w <= 0 || h <= 0 || len(labels) != w*h {
		err := fmt.Errorf("segmenter returned %d labels for %dx%d mask", len(labels), w, h)
		wrapped := logging.NewOperationError("grpcclient.segment", requestID, err)
		g.logger.Error("malformed segmenter response", zap.Error(wrapped))
		return nil, wrapped
	}

	return &segmenter.Result{
		Labels:       labels,
		Width:        w,
		Height:       h,
		ModelVersion: resp.GetModelVersion(),
	}, nil
}
