package sources

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const (
	HTTPSourceKind = "http"
	DefaultTimeout = 5 * time.Minute
)

var defaultHeaders = map[string]string{
	"User-Agent": "dataprobe/0.1.0",
	"Accept":     "application/zip, application/octet-stream",
}

type HTTPConfig struct {
	URL      string
	Headers  map[string]string
	Timeout  time.Duration
	Insecure bool
}

// HTTPSource downloads an archive over HTTP(S) into a temporary directory.
type HTTPSource struct {
	url        *url.URL
	headers    map[string]string
	httpClient *http.Client
	fs         afero.Fs
	logger     *zap.Logger
	dir        string
}

func NewHTTPSource(cfg HTTPConfig, opts ...Option) (*HTTPSource, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("url is required")
	}

	parsedURL, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse url '%s': %w", cfg.URL, err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, fmt.Errorf("url must use http or https scheme, got: %s", parsedURL.Scheme)
	}

	o := newOptions(opts)
	httpClient := o.httpClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = DefaultTimeout
		}

		transport := cleanhttp.DefaultPooledTransport()
		if cfg.Insecure {
			if transport.TLSClientConfig == nil {
				transport.TLSClientConfig = &tls.Config{}
			}

			transport.TLSClientConfig.InsecureSkipVerify = true
		}

		httpClient = &http.Client{
			Transport: transport,
			Timeout:   timeout,
		}
	}

	return &HTTPSource{
		url:        parsedURL,
		headers:    lo.Assign(defaultHeaders, cfg.Headers),
		httpClient: httpClient,
		fs:         o.fs,
		logger:     o.logger,
	}, nil
}

func (s *HTTPSource) Name() string {
	return fmt.Sprintf("%s(%s)", HTTPSourceKind, s.url.Host)
}

func (s *HTTPSource) Kind() string {
	return HTTPSourceKind
}

func (s *HTTPSource) Fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url.String(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	for k, v := range s.headers {
		req.Header.Set(k, v)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}

	dir, target, err := download(s.fs, s.url.Path)
	if err != nil {
		return "", err
	}
	s.dir = dir

	f, err := s.fs.Create(target)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", target, err)
	}

	n, err := io.Copy(f, resp.Body)
	if closeErr := f.Close(); closeErr != nil {
		err = errors.Join(err, closeErr)
	}
	if err != nil {
		return "", fmt.Errorf("failed to download %s: %w", s.url.Redacted(), err)
	}

	s.logger.Debug("downloaded archive",
		zap.String("url", s.url.Redacted()),
		zap.Int64("bytes", n),
	)

	return target, nil
}

func (s *HTTPSource) Close(ctx context.Context) error {
	if s.dir == "" {
		return nil
	}

	dir := s.dir
	s.dir = ""
	return s.fs.RemoveAll(dir)
}
