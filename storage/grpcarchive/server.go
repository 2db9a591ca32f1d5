package grpcarchive

import (
	"context"
	"log/slog"

	"github.com/ipfs/go-cid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"xdao.co/subnetconv/cidutil"
	"xdao.co/subnetconv/storage"
)

// Server exposes a storage.Archive over the Archive gRPC service.
type Server struct {
	UnimplementedArchiveServer
	Archive storage.Archive

	// Logger and Metrics are optional.
	Logger  *slog.Logger
	Metrics *Metrics
}

var _ ArchiveServer = (*Server)(nil)

func (s *Server) Put(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.StringValue, error) {
	if s == nil || s.Archive == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing archive")
	}
	b := in.GetValue()
	expected, err := storage.Check(b)
	if err != nil {
		return nil, s.finish(ctx, "Put", "", mapErr(err))
	}
	existed := s.Archive.Has(expected)
	id, err := s.Archive.Put(b)
	if err != nil {
		return nil, s.finish(ctx, "Put", expected.String(), mapErr(err))
	}
	if id != expected {
		return nil, s.finish(ctx, "Put", expected.String(), status.Error(codes.DataLoss, storage.ErrCIDMismatch.Error()))
	}
	if !existed {
		s.Metrics.storedOne()
	}
	s.finish(ctx, "Put", id.String(), nil)
	return wrapperspb.String(id.String()), nil
}

func (s *Server) Get(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.BytesValue, error) {
	if s == nil || s.Archive == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing archive")
	}
	id, err := decodeCID(in.GetValue())
	if err != nil {
		return nil, s.finish(ctx, "Get", in.GetValue(), err)
	}
	b, err := s.Archive.Get(id)
	if err != nil {
		return nil, s.finish(ctx, "Get", id.String(), mapErr(err))
	}
	got, err := cidutil.CIDv1RawSHA256CID(b)
	if err != nil {
		return nil, s.finish(ctx, "Get", id.String(), status.Error(codes.Internal, "cid computation failed"))
	}
	if got != id {
		return nil, s.finish(ctx, "Get", id.String(), status.Error(codes.DataLoss, storage.ErrCIDMismatch.Error()))
	}
	s.finish(ctx, "Get", id.String(), nil)
	return wrapperspb.Bytes(b), nil
}

func (s *Server) Has(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	if s == nil || s.Archive == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing archive")
	}
	id, err := decodeCID(in.GetValue())
	if err != nil {
		return nil, s.finish(ctx, "Has", in.GetValue(), err)
	}
	s.finish(ctx, "Has", id.String(), nil)
	return wrapperspb.Bool(s.Archive.Has(id)), nil
}

func decodeCID(s string) (cid.Cid, error) {
	id, err := cid.Decode(s)
	if err != nil || !id.Defined() {
		return cid.Undef, status.Error(codes.InvalidArgument, storage.ErrInvalidCID.Error())
	}
	return id, nil
}

// finish records the outcome of one RPC and returns err unchanged.
func (s *Server) finish(ctx context.Context, method, key string, err error) error {
	code := status.Code(err)
	s.Metrics.observe(method, code)
	if s.Logger == nil {
		return err
	}
	level := slog.LevelDebug
	if code == codes.Internal || code == codes.DataLoss {
		level = slog.LevelWarn
	}
	s.Logger.LogAttrs(ctx, level, "archive rpc",
		slog.String("method", method),
		slog.String("cid", key),
		slog.String("code", code.String()),
	)
	return err
}
