package client

import (
	"context"
	"errors"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/billed/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type billServer interface {
	ListBills(context.Context, *ListBillsRequest) (*ListBillsResponse, error)
	CreateBillAttachment(context.Context, *CreateBillAttachmentRequest) (*CreateBillAttachmentResponse, error)
	UpdateBill(context.Context, *UpdateBillRequest) (*UpdateBillResponse, error)
}

func unaryHandler[Req any](call func(billServer, context.Context, *Req) (any, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		return call(srv.(billServer), ctx, in)
	}
}

var billServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*billServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListBills", Handler: unaryHandler(func(s billServer, ctx context.Context, in *ListBillsRequest) (any, error) {
			return s.ListBills(ctx, in)
		})},
		{MethodName: "CreateBillAttachment", Handler: unaryHandler(func(s billServer, ctx context.Context, in *CreateBillAttachmentRequest) (any, error) {
			return s.CreateBillAttachment(ctx, in)
		})},
		{MethodName: "UpdateBill", Handler: unaryHandler(func(s billServer, ctx context.Context, in *UpdateBillRequest) (any, error) {
			return s.UpdateBill(ctx, in)
		})},
	},
}

type fakeBillServer struct {
	mu sync.Mutex

	bills   []models.Bill
	listErr error

	lastAuth   string
	lastUpload *CreateBillAttachmentRequest
	lastUpdate *UpdateBillRequest
}

func (f *fakeBillServer) recordAuth(ctx context.Context) {
	md, _ := metadata.FromIncomingContext(ctx)
	if v := md.Get("authorization"); len(v) > 0 {
		f.lastAuth = v[0]
	}
}

func (f *fakeBillServer) ListBills(ctx context.Context, _ *ListBillsRequest) (*ListBillsResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recordAuth(ctx)
	if f.listErr != nil {
		return nil, f.listErr
	}
	return &ListBillsResponse{Bills: f.bills}, nil
}

func (f *fakeBillServer) CreateBillAttachment(ctx context.Context, in *CreateBillAttachmentRequest) (*CreateBillAttachmentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recordAuth(ctx)
	f.lastUpload = in
	return &CreateBillAttachmentResponse{FileURL: "https://cdn.test/" + in.FileName, Key: "bill-1"}, nil
}

func (f *fakeBillServer) UpdateBill(ctx context.Context, in *UpdateBillRequest) (*UpdateBillResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recordAuth(ctx)
	f.lastUpdate = in
	return &UpdateBillResponse{Bill: models.Bill{ID: in.ID, Name: in.Bill.Name, Status: in.Bill.Status}}, nil
}

type staticTokens struct {
	token string
	err   error
}

func (s staticTokens) Token(context.Context) (string, error) { return s.token, s.err }

func startBufServer(t *testing.T, srv *fakeBillServer, servingStatus grpc_health_v1.HealthCheckResponse_ServingStatus) *bufconn.Listener {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer()
	s.RegisterService(&billServiceDesc, srv)

	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, servingStatus)
	grpc_health_v1.RegisterHealthServer(s, hs)

	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)
	return lis
}

func newBufClient(t *testing.T, lis *bufconn.Listener, tokens TokenSource) *GRPCClient {
	t.Helper()

	c, err := NewGRPCClient("passthrough:///bufnet", tokens, 5*time.Second,
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestGRPCClient_ListBills_SendsBearer(t *testing.T) {
	t.Parallel()

	srv := &fakeBillServer{bills: []models.Bill{
		{ID: "1", Name: "encore", Date: "2004-04-04", Status: models.StatusPending},
	}}
	c := newBufClient(t, startBufServer(t, srv, grpc_health_v1.HealthCheckResponse_SERVING), staticTokens{token: "tok"})

	bills, err := c.ListBills(context.Background())
	require.NoError(t, err)
	require.Len(t, bills, 1)
	assert.Equal(t, "encore", bills[0].Name)
	assert.Equal(t, "Bearer tok", srv.lastAuth)
}

func TestGRPCClient_ListBills_EmptyIsNotNil(t *testing.T) {
	t.Parallel()

	srv := &fakeBillServer{}
	c := newBufClient(t, startBufServer(t, srv, grpc_health_v1.HealthCheckResponse_SERVING), nil)

	bills, err := c.ListBills(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, bills)
	assert.Empty(t, bills)
	assert.Empty(t, srv.lastAuth)
}

func TestGRPCClient_ListBills_MapsNotFound(t *testing.T) {
	t.Parallel()

	srv := &fakeBillServer{listErr: status.Error(codes.NotFound, "")}
	c := newBufClient(t, startBufServer(t, srv, grpc_health_v1.HealthCheckResponse_SERVING), nil)

	_, err := c.ListBills(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "Erreur 404", err.Error())
}

func TestGRPCClient_TokenError_IsUnauthorized(t *testing.T) {
	t.Parallel()

	tokenErr := errors.New("token expired")
	srv := &fakeBillServer{}
	c := newBufClient(t, startBufServer(t, srv, grpc_health_v1.HealthCheckResponse_SERVING), staticTokens{err: tokenErr})

	_, err := c.ListBills(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.ErrorIs(t, err, tokenErr)
}

func TestGRPCClient_CreateBillAttachment(t *testing.T) {
	t.Parallel()

	srv := &fakeBillServer{}
	c := newBufClient(t, startBufServer(t, srv, grpc_health_v1.HealthCheckResponse_SERVING), nil)

	att, err := c.CreateBillAttachment(context.Background(), models.AttachmentUpload{
		FileName:    "receipt.jpg",
		ContentType: "image/jpeg",
		Content:     strings.NewReader("jpegdata"),
		Email:       "a@a",
	})
	require.NoError(t, err)
	assert.Equal(t, models.Attachment{FileURL: "https://cdn.test/receipt.jpg", Key: "bill-1"}, att)

	require.NotNil(t, srv.lastUpload)
	assert.Equal(t, "a@a", srv.lastUpload.Email)
	assert.Equal(t, []byte("jpegdata"), srv.lastUpload.Content)
}

func TestGRPCClient_UpdateBill(t *testing.T) {
	t.Parallel()

	srv := &fakeBillServer{}
	c := newBufClient(t, startBufServer(t, srv, grpc_health_v1.HealthCheckResponse_SERVING), nil)

	bill, err := c.UpdateBill(context.Background(), models.Draft{ID: "bill-1", Name: "train", Status: models.StatusPending})
	require.NoError(t, err)
	assert.Equal(t, "bill-1", bill.ID)
	assert.Equal(t, "train", bill.Name)

	require.NotNil(t, srv.lastUpdate)
	assert.Equal(t, "bill-1", srv.lastUpdate.ID)
}

func TestGRPCClient_Ping(t *testing.T) {
	t.Parallel()

	c := newBufClient(t, startBufServer(t, &fakeBillServer{}, grpc_health_v1.HealthCheckResponse_SERVING), nil)
	require.NoError(t, c.Ping(context.Background()))
}

func TestGRPCClient_Ping_NotServing(t *testing.T) {
	t.Parallel()

	c := newBufClient(t, startBufServer(t, &fakeBillServer{}, grpc_health_v1.HealthCheckResponse_NOT_SERVING), nil)
	err := c.Ping(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestMapStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
		is   error
	}{
		{"not found", status.Error(codes.NotFound, "nope"), 404, ErrNotFound},
		{"unauthenticated", status.Error(codes.Unauthenticated, ""), 401, ErrUnauthorized},
		{"permission", status.Error(codes.PermissionDenied, ""), 403, ErrUnauthorized},
		{"unavailable", status.Error(codes.Unavailable, ""), 503, ErrUnavailable},
		{"deadline", status.Error(codes.DeadlineExceeded, ""), 503, ErrUnavailable},
		{"internal", status.Error(codes.Internal, "boom"), 500, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var te *TransportError
			require.ErrorAs(t, mapStatus(tt.err), &te)
			assert.Equal(t, tt.want, te.Status)
			if tt.is != nil {
				assert.ErrorIs(t, te, tt.is)
			}
		})
	}

	t.Run("plain error", func(t *testing.T) {
		err := mapStatus(errors.New("dial failed"))
		assert.ErrorIs(t, err, ErrUnavailable)
		assert.Equal(t, "Erreur: dial failed", err.Error())
	})
}
