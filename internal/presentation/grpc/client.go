package grpc

import (
	"fmt"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/MiguelMaleico/credit360-smart-market/pkg/tlsutil"
)

// ClientConfig describes how to reach a marketplace gRPC listener.
type ClientConfig struct {
	Target string
	// CAFile enables TLS, trusting only this CA. Empty means plaintext.
	CAFile     string
	ServerName string
}

// Dial opens a connection to the marketplace service. Extra options are
// appended after the transport credentials.
func Dial(cfg ClientConfig, opts ...grpclib.DialOption) (*grpclib.ClientConn, MarketplaceServiceClient, error) {
	creds := insecure.NewCredentials()
	if cfg.CAFile != "" {
		var err error
		if creds, err = clientCredentials(cfg); err != nil {
			return nil, nil, err
		}
	}

	conn, err := grpclib.NewClient(cfg.Target, append([]grpclib.DialOption{grpclib.WithTransportCredentials(creds)}, opts...)...)
	if err != nil {
		return nil, nil, fmt.Errorf("dial marketplace %s: %w", cfg.Target, err)
	}
	return conn, NewMarketplaceServiceClient(conn), nil
}

func clientCredentials(cfg ClientConfig) (credentials.TransportCredentials, error) {
	creds, err := tlsutil.ClientTLSConfig(cfg.CAFile, cfg.ServerName)
	if err != nil {
		return nil, fmt.Errorf("load grpc client tls: %w", err)
	}
	return creds, nil
}
