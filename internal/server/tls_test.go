package server

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// writeCert writes a self-signed certificate valid until notAfter.
func writeCert(t *testing.T, notAfter time.Time) (certPath, keyPath string) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "devscan.test"},
		DNSNames:     []string{"devscan.test"},
		NotBefore:    notAfter.Add(-365 * 24 * time.Hour),
		NotAfter:     notAfter,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatal(err)
	}
	keyDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	certPath = filepath.Join(dir, "cert.pem")
	keyPath = filepath.Join(dir, "key.pem")
	if err := os.WriteFile(certPath, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(keyPath, pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER}), 0o600); err != nil {
		t.Fatal(err)
	}
	return certPath, keyPath
}

func TestNewTLSConfig(t *testing.T) {
	certPath, keyPath := writeCert(t, time.Now().Add(90*24*time.Hour))

	cfg, err := NewTLSConfig(certPath, keyPath)
	if err != nil {
		t.Fatalf("NewTLSConfig() error = %v", err)
	}
	if cfg.MinVersion != tls.VersionTLS12 {
		t.Errorf("MinVersion = %x, want TLS 1.2", cfg.MinVersion)
	}

	info := GetTLSInfo(cfg)
	if info["enabled"] != true || info["num_certs"] != 1 {
		t.Errorf("GetTLSInfo() = %v", info)
	}
	if _, ok := info["not_after"]; !ok {
		t.Errorf("GetTLSInfo() = %v, want not_after", info)
	}
}

func TestNewTLSConfig_Expired(t *testing.T) {
	certPath, keyPath := writeCert(t, time.Now().Add(-time.Hour))

	_, err := NewTLSConfig(certPath, keyPath)
	if err == nil || !strings.Contains(err.Error(), "expired") {
		t.Errorf("NewTLSConfig() error = %v, want expired", err)
	}
}

func TestNewTLSConfig_MissingFiles(t *testing.T) {
	dir := t.TempDir()
	if _, err := NewTLSConfig(filepath.Join(dir, "cert.pem"), filepath.Join(dir, "key.pem")); err == nil {
		t.Error("NewTLSConfig() error = nil, want load failure")
	}
}
