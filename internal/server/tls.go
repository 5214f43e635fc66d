package server

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/devscan/internal/logging"
)

// NewTLSConfig loads the control server's certificate and key. An expired
// certificate is rejected; one close to expiry is logged.
func NewTLSConfig(certPath, keyPath string) (*tls.Config, error) {
	pair, err := tls.LoadX509KeyPair(certPath, keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load TLS certificate: %w", err)
	}

	leaf, err := x509.ParseCertificate(pair.Certificate[0])
	if err != nil {
		return nil, fmt.Errorf("failed to parse TLS certificate: %w", err)
	}
	if time.Now().After(leaf.NotAfter) {
		return nil, fmt.Errorf("TLS certificate %s expired on %s", certPath, leaf.NotAfter.Format(time.DateOnly))
	}
	if time.Until(leaf.NotAfter) < 30*24*time.Hour {
		logging.Warn("TLS certificate expires soon",
			zap.String("cert", certPath),
			zap.Time("not_after", leaf.NotAfter),
		)
	}
	pair.Leaf = leaf

	logging.Info("Loaded TLS certificate",
		zap.String("cert", certPath),
		zap.String("subject", leaf.Subject.String()),
		zap.Strings("dns_names", leaf.DNSNames),
	)

	return &tls.Config{
		Certificates: []tls.Certificate{pair},
		MinVersion:   tls.VersionTLS12,
	}, nil
}

// GetTLSInfo summarises config for the startup log line.
func GetTLSInfo(config *tls.Config) map[string]interface{} {
	info := map[string]interface{}{"enabled": config != nil}
	if config == nil {
		return info
	}

	info["min_version"] = tls.VersionName(config.MinVersion)
	info["num_certs"] = len(config.Certificates)
	if len(config.Certificates) > 0 && config.Certificates[0].Leaf != nil {
		info["not_after"] = config.Certificates[0].Leaf.NotAfter.Format(time.RFC3339)
	}
	return info
}
