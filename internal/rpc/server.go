package rpc

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"bookshelf/internal/catalog"
	"bookshelf/internal/filter"
	"bookshelf/internal/logger"
	"bookshelf/internal/metrics"
	"bookshelf/internal/search"
)

// RequestIDKey is the metadata key carrying a caller's request id.
const RequestIDKey = "x-request-id"

// CatalogService answers catalog queries over gRPC.
type CatalogService struct {
	svc *search.Service
}

func NewCatalogService(svc *search.Service) *CatalogService {
	return &CatalogService{svc: svc}
}

// SearchRequest is the decoded Search payload.
type SearchRequest struct {
	Title  string `json:"title,omitempty"`
	Author string `json:"author,omitempty"`
	Genre  string `json:"genre,omitempty"`
	Query  string `json:"query,omitempty"`
	From   int    `json:"from,omitempty"`
	Size   int    `json:"size,omitempty"`
}

func (s *CatalogService) Search(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req SearchRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if req.From < 0 || req.Size < 0 {
		return nil, status.Error(codes.InvalidArgument, "from and size must not be negative")
	}

	c := filter.Criteria{Title: req.Title, AuthorID: req.Author, GenreID: req.Genre}.Normalize()
	if req.Query != "" {
		parsed, err := filter.Parse(req.Query)
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		c = parsed
	}

	out, err := toStruct(s.svc.Search(ctx, c, req.From, req.Size))
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

func (s *CatalogService) GetBook(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	id := in.GetFields()["id"].GetStringValue()
	if id == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}
	b, err := s.svc.Book(id)
	if errors.Is(err, catalog.ErrNotFound) {
		return nil, status.Errorf(codes.NotFound, "book %q not found", id)
	}
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	out, err := toStruct(b)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

// NewServer builds a gRPC server with the catalog and health services
// registered and the logging/metrics and recovery interceptors installed.
func NewServer(svc *search.Service, log *logrus.Logger, opts ...grpc.ServerOption) (*grpc.Server, *health.Server) {
	opts = append(opts, grpc.ChainUnaryInterceptor(UnaryInterceptor(log), RecoveryInterceptor(log)))
	s := grpc.NewServer(opts...)
	RegisterCatalogServer(s, NewCatalogService(svc))

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, hs)
	return s, hs
}

// UnaryInterceptor tags the context with a request id, logs the call and
// counts it by method and status code.
func UnaryInterceptor(log *logrus.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		id := ""
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if v := md.Get(RequestIDKey); len(v) > 0 {
				id = v[0]
			}
		}
		if id == "" {
			id = uuid.NewString()
		}
		ctx = logger.ContextWithID(ctx, id)

		done := logger.Track(ctx, "rpc: "+info.FullMethod)
		resp, err := handler(ctx, req)
		done()

		code := status.Code(err)
		metrics.RPCRequestsTotal.WithLabelValues(info.FullMethod, code.String()).Inc()
		if err != nil && code != codes.NotFound && code != codes.InvalidArgument {
			log.WithError(err).WithField("request_id", id).WithField("method", info.FullMethod).Error("rpc.failed")
		}
		return resp, err
	}
}

// RecoveryInterceptor turns a handler panic into codes.Internal.
func RecoveryInterceptor(log *logrus.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				log.WithField("method", info.FullMethod).WithField("panic", r).Error("rpc.panic")
				resp, err = nil, status.Error(codes.Internal, "internal error")
			}
		}()
		return handler(ctx, req)
	}
}
