// Package ssl provides TLS certificates from local-ip.sh so the addon can be
// installed over HTTPS from other devices on the local network.
package ssl

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/amaumene/gostremiojackett/pkg/httputil"
	"github.com/amaumene/gostremiojackett/pkg/logger"
)

const (
	defaultCertificateURL = "https://local-ip.sh/server.pem"
	defaultPrivateKeyURL  = "https://local-ip.sh/server.key"

	keyFileMode = 0600
	dirMode     = 0755

	// local-ip.sh rotates its certificate; refresh well before expiry
	defaultMaxAge = 30 * 24 * time.Hour

	dnsServer   = "8.8.8.8:80"
	httpTimeout = 30 * time.Second
)

// Options configures where certificates come from and where they are cached.
type Options struct {
	CacheDir       string
	CertificateURL string
	PrivateKeyURL  string
	MaxAge         time.Duration
}

// LocalIPCertificate manages the local-ip.sh wildcard certificate.
type LocalIPCertificate struct {
	opts     Options
	logger   logger.Logger
	client   *http.Client
	certPath string
	keyPath  string
	now      func() time.Time
}

func NewLocalIPCertificate(opts Options, log logger.Logger) *LocalIPCertificate {
	if opts.CacheDir == "" {
		opts.CacheDir = filepath.Join(os.TempDir(), "gostremiojackett-ssl")
	}
	if opts.CertificateURL == "" {
		opts.CertificateURL = defaultCertificateURL
	}
	if opts.PrivateKeyURL == "" {
		opts.PrivateKeyURL = defaultPrivateKeyURL
	}
	if opts.MaxAge <= 0 {
		opts.MaxAge = defaultMaxAge
	}
	return &LocalIPCertificate{
		opts:     opts,
		logger:   log,
		client:   httputil.NewHTTPClient(httpTimeout),
		certPath: filepath.Join(opts.CacheDir, "server.pem"),
		keyPath:  filepath.Join(opts.CacheDir, "server.key"),
		now:      time.Now,
	}
}

// TLSConfig returns a TLS config with the cached certificate, downloading a
// fresh one first when the cache is missing or stale.
func (l *LocalIPCertificate) TLSConfig(ctx context.Context) (*tls.Config, error) {
	if !l.cached() {
		if err := os.MkdirAll(l.opts.CacheDir, dirMode); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
		if err := l.download(ctx); err != nil {
			return nil, fmt.Errorf("failed to download certificates: %w", err)
		}
		l.logger.Infof("[SSL] certificates downloaded to %s", l.opts.CacheDir)
	}

	cert, err := tls.LoadX509KeyPair(l.certPath, l.keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load certificates: %w", err)
	}
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}, nil
}

// Hostname returns the local-ip.sh name resolving to ip, e.g. 192-168-1-2.local-ip.sh.
func Hostname(ip string) string {
	return strings.ReplaceAll(ip, ".", "-") + ".local-ip.sh"
}

// LocalIP returns the address of the interface used for outbound traffic.
// No packet is sent.
func LocalIP() (string, error) {
	conn, err := net.Dial("udp", dnsServer)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	return conn.LocalAddr().(*net.UDPAddr).IP.String(), nil
}

func (l *LocalIPCertificate) cached() bool {
	info, err := os.Stat(l.certPath)
	if err != nil {
		return false
	}
	if _, err := os.Stat(l.keyPath); err != nil {
		return false
	}
	return l.now().Sub(info.ModTime()) < l.opts.MaxAge
}

func (l *LocalIPCertificate) download(ctx context.Context) error {
	l.logger.Debugf("[SSL] downloading certificate from %s", l.opts.CertificateURL)
	if err := l.downloadFile(ctx, l.opts.CertificateURL, l.certPath); err != nil {
		return fmt.Errorf("certificate: %w", err)
	}

	l.logger.Debugf("[SSL] downloading private key from %s", l.opts.PrivateKeyURL)
	if err := l.downloadFile(ctx, l.opts.PrivateKeyURL, l.keyPath); err != nil {
		return fmt.Errorf("private key: %w", err)
	}
	return os.Chmod(l.keyPath, keyFileMode)
}

func (l *LocalIPCertificate) downloadFile(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	// write next to dest so a failed download never leaves a truncated file
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".download-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dest)
}

// Cleanup removes the cached certificates.
func (l *LocalIPCertificate) Cleanup() error {
	return os.RemoveAll(l.opts.CacheDir)
}
