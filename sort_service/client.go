package sort_service

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client calls the sort service over conn.
type Client struct {
	conn grpc.ClientConnInterface
}

func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

// Sort asks the service to sort vs by the named order. An empty order uses the
// service default and threads <= 0 the service default number of threads.
func (c *Client) Sort(ctx context.Context, vs []*structpb.Value, order string, threads int, opts ...grpc.CallOption) ([]*structpb.Value, error) {
	req := &structpb.Struct{
		Fields: map[string]*structpb.Value{
			FieldValues: structpb.NewListValue(&structpb.ListValue{Values: vs}),
		},
	}
	if order != "" {
		req.Fields[FieldOrder] = structpb.NewStringValue(order)
	}
	if threads > 0 {
		req.Fields[FieldThreads] = structpb.NewNumberValue(float64(threads))
	}
	repl := &structpb.Struct{}
	if err := c.conn.Invoke(ctx, SortMethod, req, repl, opts...); err != nil {
		return nil, err
	}
	l, ok := repl.GetFields()[FieldValues].GetKind().(*structpb.Value_ListValue)
	if !ok {
		return nil, fmt.Errorf("reply carries no %q list", FieldValues)
	}

	return l.ListValue.GetValues(), nil
}
