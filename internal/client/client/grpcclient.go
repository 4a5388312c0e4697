package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/billed/internal/client/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const (
	ServiceName = "billed.v1.BillService"

	MethodListBills            = "/" + ServiceName + "/ListBills"
	MethodCreateBillAttachment = "/" + ServiceName + "/CreateBillAttachment"
	MethodUpdateBill           = "/" + ServiceName + "/UpdateBill"

	healthCheckMethod = "/grpc.health.v1.Health/Check"

	authorizationHeader = "authorization"
)

// Wire messages of billed.v1.BillService. They travel as JSON.
type (
	ListBillsRequest  struct{}
	ListBillsResponse struct {
		Bills []models.Bill `json:"bills"`
	}

	CreateBillAttachmentRequest struct {
		FileName    string `json:"fileName"`
		ContentType string `json:"contentType,omitempty"`
		Email       string `json:"email"`
		Content     []byte `json:"content"`
	}
	CreateBillAttachmentResponse struct {
		FileURL string `json:"fileUrl"`
		Key     string `json:"key"`
	}

	UpdateBillRequest struct {
		ID   string       `json:"id,omitempty"`
		Bill models.Draft `json:"bill"`
	}
	UpdateBillResponse struct {
		Bill models.Bill `json:"bill"`
	}
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	health      grpc_health_v1.HealthClient
	tokens      TokenSource
	timeout     time.Duration
}

// NewGRPCClient connects lazily to endpointURL. Extra dial options are
// appended after the defaults (tests pass a bufconn dialer here).
func NewGRPCClient(endpointURL string, tokens TokenSource, timeout time.Duration, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, tokens: tokens, timeout: timeout}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.authInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("grpc client %s: %w", endpointURL, err)
	}
	c.conn = conn
	c.health = grpc_health_v1.NewHealthClient(conn)
	return c, nil
}

func withBearer(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	md.Set(authorizationHeader, "Bearer "+token)
	return metadata.NewOutgoingContext(ctx, md)
}

func (c *GRPCClient) authInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if method == healthCheckMethod || c.tokens == nil {
		return invoker(ctx, method, req, reply, cc, opts...)
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return &TransportError{Status: http.StatusUnauthorized, Message: err.Error(), Err: err}
	}
	if token != "" {
		ctx = withBearer(ctx, token)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

func (c *GRPCClient) invoke(ctx context.Context, method string, req, reply any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	if err := c.conn.Invoke(ctx, method, req, reply, grpc.CallContentSubtype(codecName)); err != nil {
		return mapStatus(err)
	}
	return nil
}

func (c *GRPCClient) ListBills(ctx context.Context) ([]models.Bill, error) {
	var resp ListBillsResponse
	if err := c.invoke(ctx, MethodListBills, &ListBillsRequest{}, &resp); err != nil {
		return nil, err
	}
	if resp.Bills == nil {
		return []models.Bill{}, nil
	}
	return resp.Bills, nil
}

func (c *GRPCClient) CreateBillAttachment(ctx context.Context, upload models.AttachmentUpload) (models.Attachment, error) {
	var content []byte
	if upload.Content != nil {
		b, err := io.ReadAll(upload.Content)
		if err != nil {
			return models.Attachment{}, fmt.Errorf("read attachment %s: %w", upload.FileName, err)
		}
		content = b
	}

	req := &CreateBillAttachmentRequest{
		FileName:    upload.FileName,
		ContentType: upload.ContentType,
		Email:       upload.Email,
		Content:     content,
	}
	var resp CreateBillAttachmentResponse
	if err := c.invoke(ctx, MethodCreateBillAttachment, req, &resp); err != nil {
		return models.Attachment{}, err
	}
	return models.Attachment{FileURL: resp.FileURL, Key: resp.Key}, nil
}

func (c *GRPCClient) UpdateBill(ctx context.Context, draft models.Draft) (models.Bill, error) {
	var resp UpdateBillResponse
	if err := c.invoke(ctx, MethodUpdateBill, &UpdateBillRequest{ID: draft.ID, Bill: draft}, &resp); err != nil {
		return models.Bill{}, err
	}
	return resp.Bill, nil
}

// Ping uses the standard gRPC health service.
func (c *GRPCClient) Ping(ctx context.Context) error {
	resp, err := c.health.Check(ctx, &grpc_health_v1.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		return mapStatus(err)
	}
	if resp.GetStatus() != grpc_health_v1.HealthCheckResponse_SERVING {
		return &TransportError{Status: http.StatusServiceUnavailable, Message: resp.GetStatus().String(), Err: ErrUnavailable}
	}
	return nil
}

func (c *GRPCClient) Close() error {
	return c.conn.Close()
}

// mapStatus turns a gRPC status into a TransportError with the closest HTTP
// status, so callers see the same error shape whatever the transport.
func mapStatus(err error) error {
	var te *TransportError
	if errors.As(err, &te) {
		return te
	}

	st, ok := status.FromError(err)
	if !ok {
		return &TransportError{Message: err.Error(), Err: ErrUnavailable}
	}

	var code int
	switch st.Code() {
	case codes.NotFound:
		code = http.StatusNotFound
	case codes.Unauthenticated:
		code = http.StatusUnauthorized
	case codes.PermissionDenied:
		code = http.StatusForbidden
	case codes.InvalidArgument, codes.FailedPrecondition, codes.OutOfRange:
		code = http.StatusBadRequest
	case codes.AlreadyExists, codes.Aborted:
		code = http.StatusConflict
	case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled:
		code = http.StatusServiceUnavailable
	default:
		code = http.StatusInternalServerError
	}
	return &TransportError{Status: code, Message: st.Message(), Err: err}
}
