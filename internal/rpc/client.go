package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/structpb"

	"bookshelf/internal/logger"
	"bookshelf/internal/search"
)

// Client is a typed wrapper over a catalog service connection.
type Client struct {
	conn *grpc.ClientConn
}

// Dial connects to addr without transport security.
func Dial(addr string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn}, nil
}

func (c *Client) Close() error { return c.conn.Close() }

func (c *Client) Search(ctx context.Context, req SearchRequest) (*search.SearchResult, error) {
	in, err := toStruct(req)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(outgoing(ctx), searchMethod, in, out); err != nil {
		return nil, err
	}
	var res search.SearchResult
	if err := fromStruct(out, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) GetBook(ctx context.Context, id string) (search.BookDTO, error) {
	in, err := structpb.NewStruct(map[string]any{"id": id})
	if err != nil {
		return search.BookDTO{}, err
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(outgoing(ctx), getBookMethod, in, out); err != nil {
		return search.BookDTO{}, err
	}
	var b search.BookDTO
	err = fromStruct(out, &b)
	return b, err
}

// Health asks the standard health service about the catalog service.
func (c *Client) Health(ctx context.Context) (healthpb.HealthCheckResponse_ServingStatus, error) {
	res, err := healthpb.NewHealthClient(c.conn).Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, err
	}
	return res.GetStatus(), nil
}

// outgoing forwards the request id, if any, as metadata.
func outgoing(ctx context.Context) context.Context {
	if id := logger.IDFrom(ctx); id != "" {
		return metadata.AppendToOutgoingContext(ctx, RequestIDKey, id)
	}
	return ctx
}
