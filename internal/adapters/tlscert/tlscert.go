// Package tlscert provides the certificate for the HTTPS listener.
package tlscert

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

const (
	ModeOff        = "off"
	ModeFiles      = "files"
	ModeSelfSigned = "selfsigned"
)

var DefaultHosts = []string{"api.spytech.am", "localhost"}

type Options struct {
	Mode     string
	CertFile string
	KeyFile  string
	Hosts    []string
	Validity time.Duration
}

// Config builds a server tls.Config for opts.Mode. Mode off returns nil.
func Config(opts Options) (*tls.Config, error) {
	var (
		cert tls.Certificate
		err  error
	)
	switch strings.ToLower(opts.Mode) {
	case "", ModeOff:
		return nil, nil
	case ModeFiles:
		if opts.CertFile == "" || opts.KeyFile == "" {
			return nil, errors.New("tls: cert and key files are required")
		}
		cert, err = tls.LoadX509KeyPair(opts.CertFile, opts.KeyFile)
		if err != nil {
			return nil, errors.Wrap(err, "tls: load key pair")
		}
	case ModeSelfSigned:
		certPEM, keyPEM, gerr := SelfSigned(opts.Hosts, opts.Validity, time.Now())
		if gerr != nil {
			return nil, gerr
		}
		cert, err = tls.X509KeyPair(certPEM, keyPEM)
		if err != nil {
			return nil, errors.Wrap(err, "tls: parse generated pair")
		}
	default:
		return nil, errors.Newf("tls: unknown mode %q", opts.Mode)
	}
	return &tls.Config{Certificates: []tls.Certificate{cert}, MinVersion: tls.VersionTLS12}, nil
}

// SelfSigned returns a PEM certificate and PKCS#1 key for hosts. The first
// host is the common name; IP literals go to IP SANs.
func SelfSigned(hosts []string, validity time.Duration, now time.Time) (certPEM, keyPEM []byte, err error) {
	if len(hosts) == 0 {
		hosts = DefaultHosts
	}
	if validity <= 0 {
		validity = 365 * 24 * time.Hour
	}
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, nil, errors.Wrap(err, "tls: generate key")
	}
	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return nil, nil, errors.Wrap(err, "tls: serial")
	}

	tmpl := &x509.Certificate{
		SerialNumber:          serial,
		Subject:               pkix.Name{CommonName: hosts[0]},
		NotBefore:             now.Add(-time.Minute),
		NotAfter:              now.Add(validity),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
	}
	for _, h := range hosts {
		if ip := net.ParseIP(h); ip != nil {
			tmpl.IPAddresses = append(tmpl.IPAddresses, ip)
		} else {
			tmpl.DNSNames = append(tmpl.DNSNames, h)
		}
	}

	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		return nil, nil, errors.Wrap(err, "tls: create certificate")
	}
	certPEM = pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM = pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	return certPEM, keyPEM, nil
}
