// SPDX-License-Identifier: Apache-2.0

package tls

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
)

type Config struct {
	// Enabled determines if TLS should be used. Defaults to false.
	Enabled bool
	// CA certificate, either as a file path or as PEM content. When neither is
	// provided the system certificate pool is used.
	CaCertFile string
	CaCertPEM  string
	// Client certificate and key for mutual TLS, either as file paths or as
	// PEM content.
	ClientCertFile string
	ClientCertPEM  string
	ClientKeyFile  string
	ClientKeyPEM   string
	// ServerName overrides the name used to verify the server certificate.
	ServerName string
	// InsecureSkipVerify disables server certificate verification. Only meant
	// for local clusters with self signed certificates.
	InsecureSkipVerify bool
}

var errInvalidCACert = errors.New("no valid certificates found in CA PEM")

// NewConfig returns the tls configuration for the config on input, or nil if
// TLS is not enabled.
func NewConfig(cfg *Config) (*tls.Config, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	rootCAs, err := cfg.certPool()
	if err != nil {
		return nil, err
	}

	certificates, err := cfg.certificates()
	if err != nil {
		return nil, err
	}

	return &tls.Config{
		MinVersion:         tls.VersionTLS12,
		Certificates:       certificates,
		RootCAs:            rootCAs,
		ServerName:         cfg.ServerName,
		InsecureSkipVerify: cfg.InsecureSkipVerify, //nolint:gosec
	}, nil
}

func (c *Config) IsClientCertProvided() bool {
	return (c.ClientCertFile != "" || c.ClientCertPEM != "") && (c.ClientKeyFile != "" || c.ClientKeyPEM != "")
}

func (c *Config) certPool() (*x509.CertPool, error) {
	pemBytes, err := readPEMBytes(c.CaCertFile, c.CaCertPEM)
	if err != nil {
		return nil, fmt.Errorf("reading CA certificate: %w", err)
	}

	if len(pemBytes) == 0 {
		return x509.SystemCertPool()
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pemBytes) {
		return nil, errInvalidCACert
	}
	return pool, nil
}

func (c *Config) certificates() ([]tls.Certificate, error) {
	if !c.IsClientCertProvided() {
		return []tls.Certificate{}, nil
	}

	certBytes, err := readPEMBytes(c.ClientCertFile, c.ClientCertPEM)
	if err != nil {
		return nil, fmt.Errorf("reading client certificate: %w", err)
	}
	keyBytes, err := readPEMBytes(c.ClientKeyFile, c.ClientKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("reading client key: %w", err)
	}

	cert, err := tls.X509KeyPair(certBytes, keyBytes)
	if err != nil {
		return nil, err
	}
	return []tls.Certificate{cert}, nil
}

// readPEMBytes returns the PEM content from the file if provided, or the PEM
// string otherwise.
func readPEMBytes(file, pem string) ([]byte, error) {
	if file != "" {
		return os.ReadFile(file)
	}
	return []byte(pem), nil
}
