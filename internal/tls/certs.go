// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package tls issues and loads the local certificates the WebSocket
// listener uses when TLS is enabled. A private CA is created once per state
// directory; server certificates are reissued from it when missing or close
// to expiry.
package tls

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	cryptotls "crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"io/fs"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/samber/oops"
)

// File names inside the certificates directory.
const (
	CACertFile     = "root-ca.crt"
	caKeyFile      = "root-ca.key"
	ServerCertFile = "server.crt"
	serverKeyFile  = "server.key"
)

// Validity periods.
const (
	caValidity     = 10 * 365 * 24 * time.Hour
	serverValidity = 365 * 24 * time.Hour
	// RenewBefore is how close to expiry a server certificate is reissued.
	RenewBefore = 30 * 24 * time.Hour
)

// CA holds a certificate authority certificate and private key.
type CA struct {
	Certificate *x509.Certificate
	PrivateKey  *ecdsa.PrivateKey
}

// ServerCert holds a server certificate and private key.
type ServerCert struct {
	Certificate *x509.Certificate
	PrivateKey  *ecdsa.PrivateKey
}

func serial() (*big.Int, error) {
	n, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return nil, oops.In("tls").Wrapf(err, "generate serial")
	}
	return n, nil
}

// GenerateCA creates a new root CA.
func GenerateCA() (*CA, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, oops.In("tls").Wrapf(err, "generate CA key")
	}
	sn, err := serial()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	template := &x509.Certificate{
		SerialNumber: sn,
		Subject: pkix.Name{
			Organization: []string{"exthost"},
			CommonName:   "exthost local CA",
		},
		NotBefore:             now.Add(-time.Minute),
		NotAfter:              now.Add(caValidity),
		IsCA:                  true,
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageCRLSign,
		BasicConstraintsValid: true,
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		return nil, oops.In("tls").Wrapf(err, "create CA certificate")
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, oops.In("tls").Wrapf(err, "parse CA certificate")
	}
	return &CA{Certificate: cert, PrivateKey: key}, nil
}

// GenerateServerCert creates a server certificate signed by ca for hosts.
// Entries that parse as IP addresses become IP SANs, the rest DNS names.
func GenerateServerCert(ca *CA, hosts ...string) (*ServerCert, error) {
	if ca == nil {
		return nil, oops.In("tls").New("CA is required")
	}
	if len(hosts) == 0 {
		return nil, oops.In("tls").New("at least one host is required")
	}
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, oops.In("tls").Wrapf(err, "generate server key")
	}
	sn, err := serial()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	template := &x509.Certificate{
		SerialNumber: sn,
		Subject: pkix.Name{
			Organization: []string{"exthost"},
			CommonName:   hosts[0],
		},
		NotBefore:   now.Add(-time.Minute),
		NotAfter:    now.Add(serverValidity),
		KeyUsage:    x509.KeyUsageDigitalSignature,
		ExtKeyUsage: []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}
	for _, h := range hosts {
		if ip := net.ParseIP(h); ip != nil {
			template.IPAddresses = append(template.IPAddresses, ip)
		} else {
			template.DNSNames = append(template.DNSNames, h)
		}
	}

	der, err := x509.CreateCertificate(rand.Reader, template, ca.Certificate, &key.PublicKey, ca.PrivateKey)
	if err != nil {
		return nil, oops.In("tls").Wrapf(err, "create server certificate")
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, oops.In("tls").Wrapf(err, "parse server certificate")
	}
	return &ServerCert{Certificate: cert, PrivateKey: key}, nil
}

// EnsureServerTLS returns a server configuration backed by the certificates
// in dir, creating the CA and a server certificate for hosts as needed. A
// server certificate that is expiring within RenewBefore or does not cover
// every host is reissued.
func EnsureServerTLS(dir string, hosts ...string) (*cryptotls.Config, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, oops.In("tls").With("dir", dir).Wrapf(err, "create certs directory")
	}

	ca, err := LoadCA(dir)
	if errors.Is(err, fs.ErrNotExist) {
		if ca, err = GenerateCA(); err != nil {
			return nil, err
		}
		if err = save(dir, CACertFile, caKeyFile, ca.Certificate, ca.PrivateKey); err != nil {
			return nil, err
		}
	}
	if err != nil {
		return nil, err
	}

	pair, err := cryptotls.LoadX509KeyPair(filepath.Join(dir, ServerCertFile), filepath.Join(dir, serverKeyFile))
	if err != nil || needsRenewal(pair.Leaf, ca, hosts) {
		srv, genErr := GenerateServerCert(ca, hosts...)
		if genErr != nil {
			return nil, genErr
		}
		if err := save(dir, ServerCertFile, serverKeyFile, srv.Certificate, srv.PrivateKey); err != nil {
			return nil, err
		}
		pair = cryptotls.Certificate{
			Certificate: [][]byte{srv.Certificate.Raw},
			PrivateKey:  srv.PrivateKey,
			Leaf:        srv.Certificate,
		}
	}

	return &cryptotls.Config{
		Certificates: []cryptotls.Certificate{pair},
		MinVersion:   cryptotls.VersionTLS13,
	}, nil
}

// needsRenewal reports whether leaf must be reissued.
func needsRenewal(leaf *x509.Certificate, ca *CA, hosts []string) bool {
	if leaf == nil {
		return true
	}
	if time.Until(leaf.NotAfter) < RenewBefore {
		return true
	}
	if leaf.CheckSignatureFrom(ca.Certificate) != nil {
		return true
	}
	for _, h := range hosts {
		if leaf.VerifyHostname(h) != nil {
			return true
		}
	}
	return false
}

// ClientConfig returns a client configuration trusting the CA in dir.
func ClientConfig(dir string) (*cryptotls.Config, error) {
	ca, err := LoadCA(dir)
	if err != nil {
		return nil, err
	}
	pool := x509.NewCertPool()
	pool.AddCert(ca.Certificate)
	return &cryptotls.Config{RootCAs: pool, MinVersion: cryptotls.VersionTLS13}, nil
}

// LoadCA loads the CA from dir. A missing CA wraps fs.ErrNotExist.
func LoadCA(dir string) (*CA, error) {
	errb := oops.In("tls").With("dir", dir)

	certPEM, err := os.ReadFile(filepath.Clean(filepath.Join(dir, CACertFile)))
	if err != nil {
		return nil, errb.Wrapf(err, "read CA certificate")
	}
	keyPEM, err := os.ReadFile(filepath.Clean(filepath.Join(dir, caKeyFile)))
	if err != nil {
		return nil, errb.Wrapf(err, "read CA key")
	}

	block, _ := pem.Decode(certPEM)
	if block == nil {
		return nil, errb.New("decode CA certificate PEM")
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, errb.Wrapf(err, "parse CA certificate")
	}
	block, _ = pem.Decode(keyPEM)
	if block == nil {
		return nil, errb.New("decode CA key PEM")
	}
	key, err := x509.ParseECPrivateKey(block.Bytes)
	if err != nil {
		return nil, errb.Wrapf(err, "parse CA key")
	}
	return &CA{Certificate: cert, PrivateKey: key}, nil
}

// save writes cert and key as PEM files readable only by the owner.
func save(dir, certFile, keyFile string, cert *x509.Certificate, key *ecdsa.PrivateKey) error {
	keyDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		return oops.In("tls").Wrapf(err, "marshal key")
	}
	if err := writePEM(filepath.Join(dir, certFile), "CERTIFICATE", cert.Raw); err != nil {
		return err
	}
	return writePEM(filepath.Join(dir, keyFile), "EC PRIVATE KEY", keyDER)
}

func writePEM(path, blockType string, der []byte) error {
	data := pem.EncodeToMemory(&pem.Block{Type: blockType, Bytes: der})
	if err := os.WriteFile(filepath.Clean(path), data, 0o600); err != nil {
		return oops.In("tls").With("path", path).Wrapf(err, "write %s", blockType)
	}
	return nil
}
