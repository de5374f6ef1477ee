package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/MiguelMaleico/credit360-smart-market/pkg/tlsutil"
)

// genCerts implements `marketplaced gen-certs`: it writes a development CA and
// gRPC server certificate and prints the matching environment settings.
func genCerts(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("gen-certs", flag.ContinueOnError)
	fs.SetOutput(out)
	outDir := fs.String("out", "./certs", "Directory for the generated PEM files")
	hosts := fs.String("hosts", "localhost,127.0.0.1", "Comma-separated DNS names and IPs the certificate covers")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var names []string
	for _, h := range strings.Split(*hosts, ",") {
		if h = strings.TrimSpace(h); h != "" {
			names = append(names, h)
		}
	}

	bundle, err := tlsutil.GenerateDevBundle(*outDir, names...)
	if err != nil {
		return fmt.Errorf("generate certificates: %w", err)
	}

	fmt.Fprintf(out, "GRPC_TLS_CERT=%s\nGRPC_TLS_KEY=%s\n# clients trust %s\n", bundle.CertFile, bundle.KeyFile, bundle.CAFile)
	return nil
}
