package fitd

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/GoSim-25-26J-441/kinfit/pkg/logger"
)

// FitGRPCServer implements FitServiceServer on top of a FitStore and
// FitExecutor.
type FitGRPCServer struct {
	store    *FitStore
	Executor *FitExecutor
}

func NewFitGRPCServer(store *FitStore, executor *FitExecutor) *FitGRPCServer {
	return &FitGRPCServer{
		store:    store,
		Executor: executor,
	}
}

// Fit runs a fit to completion. The request fields match the HTTP
// FitRequest body; the response holds the record under "fit".
func (s *FitGRPCServer) Fit(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in FitRequest
	if err := FromStruct(req, &in); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	rec, err := s.Executor.Submit(ctx, in, true)
	if err != nil {
		return nil, grpcError(err)
	}
	logger.Info("fit finished (gRPC)", "fit_id", rec.ID, "status", string(rec.Status))
	return ToStruct(map[string]any{"fit": rec})
}

func (s *FitGRPCServer) GetFit(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id := req.GetFields()["fit_id"].GetStringValue()
	if id == "" {
		return nil, status.Error(codes.InvalidArgument, "fit_id is required")
	}
	rec, ok := s.store.Get(id)
	if !ok {
		return nil, grpcError(fmt.Errorf("%w: %s", ErrFitNotFound, id))
	}
	return ToStruct(map[string]any{"fit": rec})
}

func (s *FitGRPCServer) ListModels(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return ToStruct(map[string]any{"models": modelDescriptions()})
}

// ToStruct converts any JSON-encodable value to a Struct
func ToStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

// FromStruct decodes a Struct into v through its JSON form
func FromStruct(s *structpb.Struct, v any) error {
	data, err := json.Marshal(s.AsMap())
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}
	return nil
}
