package clickhouse

import (
	"crypto/tls"
	"crypto/x509"
	"os"

	"github.com/pkg/errors"
)

// GetTLSConfig creates a TLS config for mTLS connections to ClickHouse. Without a CAFile the
// system roots are used to verify the server.
func GetTLSConfig(opts ClientOptions) (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(opts.CertFile, opts.KeyFile)
	if err != nil {
		return nil, errors.Wrap(err, "unable to load cert file/key file")
	}

	cfg := &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}

	if opts.CAFile == "" {
		return cfg, nil
	}

	caCert, err := os.ReadFile(opts.CAFile)
	if err != nil {
		return nil, errors.Wrap(err, "unable to load CA file")
	}

	cfg.RootCAs = x509.NewCertPool()
	if !cfg.RootCAs.AppendCertsFromPEM(caCert) {
		return nil, errors.Errorf("no certificates found in %s", opts.CAFile)
	}

	return cfg, nil
}
