package archiver

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
)

func loadCA(in io.Reader) (*x509.CertPool, error) {
	pem, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("could not read CA certificate, reason: %w", err)
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("could not parse CA certificate")
	}
	return pool, nil
}

func loadX509KeyPair(cert, key io.Reader) (tls.Certificate, error) {
	certPEM, err := io.ReadAll(cert)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("could not read certificate, reason: %w", err)
	}
	keyPEM, err := io.ReadAll(key)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("could not read key, reason: %w", err)
	}

	return tls.X509KeyPair(certPEM, keyPEM)
}
