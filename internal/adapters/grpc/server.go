package grpc

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/cssclub/privileges-service/internal/application"
	"github.com/cssclub/privileges-service/internal/domain"
	"github.com/cssclub/privileges-service/internal/ports"
)

// PrivilegesInternalService is the mesh-internal surface other platform
// services call: the partner scanner gateway checks codes here and the
// member profile service reads loyalty standing.
type PrivilegesInternalService interface {
	ValidateCode(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetLoyalty(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type PrivilegesInternalServer struct {
	service *application.Service
}

func NewPrivilegesInternalServer(service *application.Service) *PrivilegesInternalServer {
	return &PrivilegesInternalServer{service: service}
}

func Register(server grpc.ServiceRegistrar, svc PrivilegesInternalService) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: "css.privileges.v1.PrivilegesInternalService",
		HandlerType: (*PrivilegesInternalService)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "ValidateCode",
				Handler:    validateCodeHandler(svc),
			},
			{
				MethodName: "GetLoyalty",
				Handler:    getLoyaltyHandler(svc),
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "css/privileges/v1/privileges_internal.proto",
	}, svc)
}

func (s *PrivilegesInternalServer) ValidateCode(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	codeVal := req.GetFields()["code"]
	if codeVal == nil || codeVal.GetStringValue() == "" {
		return nil, status.Error(codes.InvalidArgument, "missing code")
	}

	res, err := s.service.ValidateCode(ctx, application.ValidateCodeRequest{Code: codeVal.GetStringValue()})
	if err != nil {
		return nil, mapStatus(err)
	}

	fields := map[string]any{
		"status":     res.Status,
		"is_expired": res.IsExpired,
		"is_used_up": res.IsUsedUp,
		"is_active":  res.IsActive,
	}
	if res.Offer != nil {
		fields["offer_id"] = res.Offer.OfferID.String()
		fields["offer_title"] = res.Offer.Title
		fields["reduction_type"] = res.Offer.ReductionType
		fields["reduction_value"] = res.Offer.ReductionValue
	}
	resp, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "build response: %v", err)
	}
	return resp, nil
}

func (s *PrivilegesInternalServer) GetLoyalty(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userVal := req.GetFields()["user_id"]
	if userVal == nil {
		return nil, status.Error(codes.InvalidArgument, "missing user_id")
	}
	userID, err := uuid.Parse(userVal.GetStringValue())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "user_id must be a UUID")
	}

	res, err := s.service.GetLoyalty(ctx, ports.Principal{UserID: userID})
	if err != nil {
		return nil, mapStatus(err)
	}
	resp, err := structpb.NewStruct(map[string]any{
		"points": res.Points,
		"level":  res.Level,
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "build response: %v", err)
	}
	return resp, nil
}

func mapStatus(err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrCodeNotFound):
		return status.Error(codes.NotFound, "not found")
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

func validateCodeHandler(svc PrivilegesInternalService) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		req := &structpb.Struct{}
		if err := dec(req); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return svc.ValidateCode(ctx, req)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: "/css.privileges.v1.PrivilegesInternalService/ValidateCode",
		}
		handler := func(ctx context.Context, req any) (any, error) {
			typed, ok := req.(*structpb.Struct)
			if !ok {
				return nil, status.Error(codes.InvalidArgument, "invalid request type")
			}
			return svc.ValidateCode(ctx, typed)
		}
		return interceptor(ctx, req, info, handler)
	}
}

func getLoyaltyHandler(svc PrivilegesInternalService) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		req := &structpb.Struct{}
		if err := dec(req); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return svc.GetLoyalty(ctx, req)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: "/css.privileges.v1.PrivilegesInternalService/GetLoyalty",
		}
		handler := func(ctx context.Context, req any) (any, error) {
			typed, ok := req.(*structpb.Struct)
			if !ok {
				return nil, status.Error(codes.InvalidArgument, "invalid request type")
			}
			return svc.GetLoyalty(ctx, typed)
		}
		return interceptor(ctx, req, info, handler)
	}
}
