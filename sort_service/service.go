package sort_service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"

	"github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/sbezverk/parsort/config"
	"github.com/sbezverk/parsort/query"
	"github.com/sbezverk/parsort/sort"
	"github.com/sbezverk/parsort/store"
	"github.com/sbezverk/parsort/values"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName = "parsort.Sorter"
	SortMethod  = "/" + ServiceName + "/Sort"

	// Request and reply fields.
	FieldValues    = "values"
	FieldThreads   = "threads"
	FieldOrder     = "order"
	FieldRequestID = "request_id"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Order is a named order values can be sorted by.
type Order struct {
	Name    string
	Compare sort.CompareFunc[*structpb.Value]
}

func (o *Order) Key() string {
	return o.Name
}

// Server is a running sort service.
type Server interface {
	Addr() net.Addr
	// RegisterOrder makes cmp available to requests under name.
	RegisterOrder(name string, cmp sort.CompareFunc[*structpb.Value]) error
	Stop()
}

type sorterServer interface {
	Sort(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

var _ sorterServer = &sortSrv{}

type sortSrv struct {
	conn   net.Listener
	gSrv   *grpc.Server
	cfg    *config.Config
	orders store.Manager
	pool   *sort.Pool
}

func (srv *sortSrv) Addr() net.Addr {
	return srv.conn.Addr()
}

func (srv *sortSrv) RegisterOrder(name string, cmp sort.CompareFunc[*structpb.Value]) error {
	if name == "" || cmp == nil {
		return fmt.Errorf("order needs a name and a comparator")
	}
	if err := srv.orders.Add(&Order{Name: name, Compare: cmp}); err != nil {
		return fmt.Errorf("order %s: %w", name, err)
	}
	return nil
}

func (srv *sortSrv) Stop() {
	srv.gSrv.Stop()
	srv.conn.Close()
	srv.orders.Stop()
}

// New starts the sort service on cfg.Address.
func New(cfg *config.Config) (Server, error) {
	conn, err := net.Listen("tcp", cfg.Address)
	if err != nil {
		return nil, err
	}
	srv, err := Serve(conn, cfg)
	if err != nil {
		conn.Close()
		return nil, err
	}

	return srv, nil
}

// Serve starts the sort service on an existing listener.
func Serve(conn net.Listener, cfg *config.Config) (Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	srv := &sortSrv{
		conn:   conn,
		cfg:    cfg,
		orders: store.NewStore(),
		pool:   sort.NewPool(cfg.Workers),
		gSrv: grpc.NewServer(
			grpc.MaxRecvMsgSize(cfg.MaxRecvMsgSize),
			grpc.KeepaliveParams(keepalive.ServerParameters{Time: cfg.Keepalive.Time, Timeout: cfg.Keepalive.Timeout}),
			grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{MinTime: cfg.Keepalive.MinTime, PermitWithoutStream: true}),
		),
	}
	for name, cmp := range map[string]sort.CompareFunc[*structpb.Value]{
		OrderAsc:  values.Compare,
		OrderDesc: values.Reverse,
	} {
		if err := srv.RegisterOrder(name, cmp); err != nil {
			srv.orders.Stop()
			return nil, err
		}
	}
	srv.gSrv.RegisterService(&serviceDesc, srv)

	glog.Infof("sort service listening on %s with %d worker slots", conn.Addr(), srv.pool.Size())
	go srv.gSrv.Serve(conn)

	return srv, nil
}

type sortRequest struct {
	values  []*structpb.Value
	threads int
	order   string
}

func parseRequest(req *structpb.Struct, threads int) (*sortRequest, error) {
	r := &sortRequest{
		threads: threads,
		order:   OrderAsc,
	}
	f := req.GetFields()
	v, ok := f[FieldValues]
	if !ok {
		return nil, fmt.Errorf("missing %q", FieldValues)
	}
	l, ok := v.GetKind().(*structpb.Value_ListValue)
	if !ok {
		return nil, fmt.Errorf("%q must be a list", FieldValues)
	}
	r.values = l.ListValue.GetValues()
	if v, ok := f[FieldThreads]; ok {
		n, ok := v.GetKind().(*structpb.Value_NumberValue)
		if !ok || n.NumberValue != math.Trunc(n.NumberValue) || math.Abs(n.NumberValue) > math.MaxInt32 {
			return nil, fmt.Errorf("%q must be an integer", FieldThreads)
		}
		r.threads = int(n.NumberValue)
	}
	if v, ok := f[FieldOrder]; ok {
		s, ok := v.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, fmt.Errorf("%q must be a string", FieldOrder)
		}
		r.order = s.StringValue
	}

	return r, nil
}

func (srv *sortSrv) Sort(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id := uuid.NewString()
	if p, ok := peer.FromContext(ctx); ok {
		glog.V(5).Infof("request %s: incoming Sort from %s", id, p.Addr)
	}
	r, err := parseRequest(req, srv.cfg.Threads)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "request %s: %v", id, err)
	}
	o, err := srv.orders.Get(r.order)
	if errors.Is(err, store.ErrStopped) {
		return nil, status.Errorf(codes.Unavailable, "request %s: sort service is stopping", id)
	}
	if err != nil {
		return nil, status.Errorf(codes.NotFound, "request %s: order %q %v", id, r.order, err)
	}
	q := &query.Query[*structpb.Value]{
		Threads:    r.threads,
		MaxThreads: srv.cfg.MaxThreads,
		Compare:    o.(*Order).Compare,
		Pool:       srv.pool,
	}
	sorted, err := q.Execute(r.values)
	if err != nil {
		if errors.Is(err, query.ErrThreadsNotSet) || errors.Is(err, query.ErrInvalidThreads) || errors.Is(err, query.ErrTooManyThreads) {
			return nil, status.Errorf(codes.InvalidArgument, "request %s: %v", id, err)
		}
		return nil, status.Errorf(codes.Internal, "request %s: %v", id, err)
	}
	glog.V(5).Infof("request %s: sorted %d values by %s with %d threads", id, len(sorted), r.order, r.threads)

	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			FieldRequestID: structpb.NewStringValue(id),
			FieldValues:    structpb.NewListValue(&structpb.ListValue{Values: sorted}),
		},
	}, nil
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*sorterServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Sort",
			Handler:    sortHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "parsort.proto",
}

func sortHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(sorterServer).Sort(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: SortMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(sorterServer).Sort(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}
