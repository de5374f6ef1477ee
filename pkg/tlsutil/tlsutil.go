// Package tlsutil loads and issues the TLS material of the marketplace gRPC
// listener and its clients.
package tlsutil

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"time"

	"google.golang.org/grpc/credentials"
)

const (
	caValidity     = 5 * 365 * 24 * time.Hour
	serverValidity = 90 * 24 * time.Hour
	// Backdating absorbs clock skew between the issuing and the verifying host.
	notBeforeSkew = 5 * time.Minute
)

// Bundle names the files written by GenerateDevBundle.
type Bundle struct {
	CAFile   string
	CertFile string
	KeyFile  string
}

// ServerTLSConfig loads TLS credentials for a gRPC server from cert and key files.
func ServerTLSConfig(certFile, keyFile string) (credentials.TransportCredentials, error) {
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, fmt.Errorf("tlsutil: load server key pair: %w", err)
	}
	return credentials.NewTLS(&tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}), nil
}

// ClientTLSConfig trusts only the CA in caFile, or the system pool when caFile
// is empty. serverName overrides the name checked against the certificate,
// which dialers without a real hostname need.
func ClientTLSConfig(caFile, serverName string) (credentials.TransportCredentials, error) {
	cfg := &tls.Config{
		MinVersion: tls.VersionTLS12,
		ServerName: serverName,
	}
	if caFile != "" {
		caPEM, err := os.ReadFile(caFile)
		if err != nil {
			return nil, fmt.Errorf("tlsutil: read CA file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caPEM) {
			return nil, fmt.Errorf("tlsutil: no certificate found in %s", caFile)
		}
		cfg.RootCAs = pool
	}
	return credentials.NewTLS(cfg), nil
}

// GenerateDevBundle issues a throwaway CA and a server certificate for hosts
// (DNS names or IPs) and writes them under outDir as ca.pem, server.pem and
// server-key.pem. The CA key is discarded.
func GenerateDevBundle(outDir string, hosts ...string) (Bundle, error) {
	if len(hosts) == 0 {
		return Bundle{}, fmt.Errorf("tlsutil: at least one host is required")
	}
	if err := os.MkdirAll(outDir, 0o700); err != nil {
		return Bundle{}, fmt.Errorf("tlsutil: create %s: %w", outDir, err)
	}

	now := time.Now()
	caKey, caDER, err := issue(&x509.Certificate{
		Subject:               pkix.Name{Organization: []string{"Credit360 Marketplace Dev CA"}},
		NotBefore:             now.Add(-notBeforeSkew),
		NotAfter:              now.Add(caValidity),
		KeyUsage:              x509.KeyUsageCertSign,
		BasicConstraintsValid: true,
		IsCA:                  true,
	}, nil, nil)
	if err != nil {
		return Bundle{}, fmt.Errorf("tlsutil: issue CA: %w", err)
	}
	caCert, err := x509.ParseCertificate(caDER)
	if err != nil {
		return Bundle{}, fmt.Errorf("tlsutil: parse CA: %w", err)
	}

	leaf := &x509.Certificate{
		Subject:     pkix.Name{Organization: []string{"Credit360 Marketplace"}, CommonName: hosts[0]},
		NotBefore:   now.Add(-notBeforeSkew),
		NotAfter:    now.Add(serverValidity),
		KeyUsage:    x509.KeyUsageDigitalSignature,
		ExtKeyUsage: []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}
	for _, h := range hosts {
		if ip := net.ParseIP(h); ip != nil {
			leaf.IPAddresses = append(leaf.IPAddresses, ip)
		} else {
			leaf.DNSNames = append(leaf.DNSNames, h)
		}
	}
	serverKey, serverDER, err := issue(leaf, caCert, caKey)
	if err != nil {
		return Bundle{}, fmt.Errorf("tlsutil: issue server certificate: %w", err)
	}
	keyDER, err := x509.MarshalECPrivateKey(serverKey)
	if err != nil {
		return Bundle{}, fmt.Errorf("tlsutil: encode server key: %w", err)
	}

	b := Bundle{
		CAFile:   filepath.Join(outDir, "ca.pem"),
		CertFile: filepath.Join(outDir, "server.pem"),
		KeyFile:  filepath.Join(outDir, "server-key.pem"),
	}
	for _, f := range []struct {
		path, kind string
		der        []byte
	}{
		{b.CAFile, "CERTIFICATE", caDER},
		{b.CertFile, "CERTIFICATE", serverDER},
		{b.KeyFile, "EC PRIVATE KEY", keyDER},
	} {
		data := pem.EncodeToMemory(&pem.Block{Type: f.kind, Bytes: f.der})
		if err := os.WriteFile(f.path, data, 0o600); err != nil {
			return Bundle{}, fmt.Errorf("tlsutil: write %s: %w", f.path, err)
		}
	}
	return b, nil
}

// issue creates a P-256 key and signs tmpl with parentKey, or self-signs when
// parent is nil.
func issue(tmpl, parent *x509.Certificate, parentKey crypto.Signer) (*ecdsa.PrivateKey, []byte, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, nil, err
	}
	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 62))
	if err != nil {
		return nil, nil, err
	}
	tmpl.SerialNumber = serial
	if parent == nil {
		parent, parentKey = tmpl, key
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, parent, &key.PublicKey, parentKey)
	if err != nil {
		return nil, nil, err
	}
	return key, der, nil
}
