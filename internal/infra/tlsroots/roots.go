package tlsroots

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
)

// ErrNoCertsFound is returned when PEM input holds no certificates.
var ErrNoCertsFound = errors.New("no certificates found in PEM data")

// RootPool creates a root pool seeded from the system store. When the
// system store is unavailable an empty pool is returned instead.
func RootPool() *x509.CertPool {
	pool, err := x509.SystemCertPool()
	if err != nil || pool == nil {
		return x509.NewCertPool()
	}
	return pool
}

// AppendPEM parses every CERTIFICATE block in data and adds it to pool.
// Non-certificate blocks are skipped.
func AppendPEM(pool *x509.CertPool, data []byte) (int, error) {
	n := 0
	for len(data) > 0 {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return n, fmt.Errorf("parse certificate: %w", err)
		}
		pool.AddCert(cert)
		n++
	}
	if n == 0 {
		return 0, ErrNoCertsFound
	}
	return n, nil
}

// AppendFile reads a PEM bundle from path into pool.
func AppendFile(pool *x509.CertPool, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read CA file: %w", err)
	}
	n, err := AppendPEM(pool, data)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	return n, nil
}

// ClientConfig returns a client TLS config trusting the system roots and,
// when caFile is set, the certificates in caFile.
func ClientConfig(caFile string) (*tls.Config, error) {
	pool := RootPool()
	if caFile != "" {
		if _, err := AppendFile(pool, caFile); err != nil {
			return nil, err
		}
	}
	return &tls.Config{
		RootCAs:    pool,
		MinVersion: tls.VersionTLS12,
	}, nil
}
