// Package client reaches the bills backend.
//
// # Overview
//
// Client is the transport-agnostic contract the controllers depend on:
// ListBills, CreateBillAttachment, UpdateBill, Ping and Close. Three
// implementations are provided:
//
//   - GRPCClient speaks billed.v1.BillService with a JSON codec and checks
//     liveness through the standard gRPC health service.
//   - HTTPClient speaks the REST flavour of the same API, uploading receipts
//     as multipart forms.
//   - S3Attachments wraps either of them and stores receipts directly in an
//     S3-compatible bucket.
//
// # Error Handling
//
// Remote failures surface as *TransportError, whose message reads
// "Erreur <status>" so it can be shown as is. They match the sentinels
// ErrUnavailable, ErrUnauthorized and ErrNotFound with errors.Is.
//
// # Local database
//
// InitDatabase opens the SQLite file holding the session and applies the
// embedded goose migrations.
package client
