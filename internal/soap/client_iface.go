package soap

import "context"

//go:generate mockgen -source=client_iface.go -destination=mocks/mocks.go -package=mocks ClientIface

// ClientIface defines the interface for a SOAP Client. It makes mocking the client easier in your tests
type ClientIface interface {
	Operations(ctx context.Context) ([]string, error)
	RawQuery(ctx context.Context, op Operation) ([]byte, error)
	Query(ctx context.Context, op Operation) (*Response, error)
	SetHeader(key, value string)
	ClearHeaders()
}
