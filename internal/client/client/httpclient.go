package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/billed/internal/client/models"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"

// HTTPClient talks to the REST flavour of the bills API:
//
//	GET   /bills        list
//	POST  /bills        multipart receipt upload (fields "file", "email")
//	PATCH /bills/{id}   update the bill created by the upload
//	POST  /bills        JSON body, when no bill id is known
//	GET   /health       liveness
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

func NewHTTPClient(baseURL string, tokens TokenSource, timeout time.Duration) *HTTPClient {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	if !strings.Contains(baseURL, "://") {
		baseURL = "http://" + baseURL
	}
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
	}
}

type apiError struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *HTTPClient) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, uuid.NewString())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, &TransportError{Status: http.StatusUnauthorized, Message: err.Error(), Err: err}
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

func (c *HTTPClient) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Message: err.Error(), Err: ErrUnavailable}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func parseError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var ae apiError
	msg := ""
	if json.Unmarshal(body, &ae) == nil {
		msg = ae.Message
		if msg == "" {
			msg = ae.Error
		}
	}
	if msg == "" {
		msg = strings.TrimSpace(string(body))
	}
	return &TransportError{Status: resp.StatusCode, Message: msg}
}

func (c *HTTPClient) ListBills(ctx context.Context) ([]models.Bill, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/bills", nil, "")
	if err != nil {
		return nil, err
	}
	bills := []models.Bill{}
	if err := c.do(req, &bills); err != nil {
		return nil, err
	}
	return bills, nil
}

func (c *HTTPClient) CreateBillAttachment(ctx context.Context, upload models.AttachmentUpload) (models.Attachment, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, upload.FileName))
	ct := upload.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)

	part, err := mw.CreatePart(h)
	if err != nil {
		return models.Attachment{}, fmt.Errorf("multipart file part: %w", err)
	}
	if upload.Content != nil {
		if _, err := io.Copy(part, upload.Content); err != nil {
			return models.Attachment{}, fmt.Errorf("read attachment %s: %w", upload.FileName, err)
		}
	}
	if err := mw.WriteField("email", upload.Email); err != nil {
		return models.Attachment{}, fmt.Errorf("multipart email field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return models.Attachment{}, fmt.Errorf("multipart close: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/bills", &buf, mw.FormDataContentType())
	if err != nil {
		return models.Attachment{}, err
	}
	var att models.Attachment
	if err := c.do(req, &att); err != nil {
		return models.Attachment{}, err
	}
	return att, nil
}

func (c *HTTPClient) UpdateBill(ctx context.Context, draft models.Draft) (models.Bill, error) {
	body, err := json.Marshal(draft)
	if err != nil {
		return models.Bill{}, fmt.Errorf("encode bill: %w", err)
	}

	method, path := http.MethodPost, "/bills"
	if draft.ID != "" {
		method, path = http.MethodPatch, "/bills/"+url.PathEscape(draft.ID)
	}

	req, err := c.newRequest(ctx, method, path, bytes.NewReader(body), "application/json")
	if err != nil {
		return models.Bill{}, err
	}
	var bill models.Bill
	if err := c.do(req, &bill); err != nil {
		return models.Bill{}, err
	}
	return bill, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req, nil)
}

func (c *HTTPClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
