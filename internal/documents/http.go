// Package documents fetches candidate profile documents and turns them into plain text.
package documents

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

const (
	defaultMaxBytes  = 10 << 20
	defaultUserAgent = "staffmatch/documents"
	probeTimeout     = 5 * time.Second
)

// ErrUnsupported is returned for documents whose format cannot be turned into text.
var ErrUnsupported = errors.New("unsupported document format")

// Extractor turns a document reference into plain text.
type Extractor interface {
	Extract(ctx context.Context, rawURL string) (string, error)
}

// HTTPExtractor downloads documents over HTTP(S) and extracts PDF, HTML and plain text.
type HTTPExtractor struct {
	HTTPClient *http.Client
	UserAgent  string
	MaxBytes   int64
	logger     *zap.Logger
}

// NewHTTPExtractor creates an extractor with sane defaults.
func NewHTTPExtractor(logger *zap.Logger) *HTTPExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPExtractor{
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		UserAgent:  defaultUserAgent,
		MaxBytes:   defaultMaxBytes,
		logger:     logger,
	}
}

// Extract downloads the document and returns its text.
func (e *HTTPExtractor) Extract(ctx context.Context, rawURL string) (string, error) {
	parsed, err := parseURL(rawURL)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", e.userAgent())

	resp, err := e.client().Do(req)
	if err != nil {
		return "", fmt.Errorf("download document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("download document: unexpected status %d", resp.StatusCode)
	}

	limit := e.MaxBytes
	if limit <= 0 {
		limit = defaultMaxBytes
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}
	if int64(len(body)) > limit {
		return "", fmt.Errorf("document exceeds %d bytes", limit)
	}

	kind := detectKind(resp.Header.Get("Content-Type"), parsed.Path, body)
	e.logger.Debug("document downloaded",
		zap.String("url", parsed.Redacted()),
		zap.String("kind", kind),
		zap.Int("bytes", len(body)),
	)

	text, err := toText(kind, body)
	if err != nil {
		return "", err
	}

	text = collapseWhitespace(text)
	if text == "" {
		return "", errors.New("document contains no text")
	}
	return text, nil
}

// Retrievable reports whether the document answers a HEAD request with a success status.
func (e *HTTPExtractor) Retrievable(ctx context.Context, rawURL string) bool {
	parsed, err := parseURL(rawURL)
	if err != nil {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, parsed.String(), nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", e.userAgent())

	resp, err := e.client().Do(req)
	if err != nil {
		e.logger.Debug("document probe failed", zap.String("url", parsed.Redacted()), zap.Error(err))
		return false
	}
	resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode <= 299
}

func (e *HTTPExtractor) client() *http.Client {
	if e.HTTPClient != nil {
		return e.HTTPClient
	}
	return http.DefaultClient
}

func (e *HTTPExtractor) userAgent() string {
	if ua := strings.TrimSpace(e.UserAgent); ua != "" {
		return ua
	}
	return defaultUserAgent
}

func parseURL(rawURL string) (*url.URL, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("invalid document url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("unsupported url scheme: %q", parsed.Scheme)
	}
	return parsed, nil
}

const (
	kindPDF  = "pdf"
	kindHTML = "html"
	kindText = "text"
)

func detectKind(contentType, urlPath string, body []byte) string {
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		switch {
		case mediaType == "application/pdf":
			return kindPDF
		case mediaType == "text/html" || mediaType == "application/xhtml+xml":
			return kindHTML
		case strings.HasPrefix(mediaType, "text/"):
			return kindText
		}
	}

	switch strings.ToLower(path.Ext(urlPath)) {
	case ".pdf":
		return kindPDF
	case ".html", ".htm":
		return kindHTML
	case ".txt", ".md":
		return kindText
	}

	if bytes.HasPrefix(body, []byte("%PDF-")) {
		return kindPDF
	}
	return ""
}

func toText(kind string, body []byte) (string, error) {
	switch kind {
	case kindPDF:
		return pdfText(body)
	case kindHTML:
		md, err := htmltomarkdown.ConvertString(string(body))
		if err != nil {
			return "", fmt.Errorf("convert html: %w", err)
		}
		return md, nil
	case kindText:
		return string(body), nil
	default:
		return "", ErrUnsupported
	}
}

func pdfText(body []byte) (text string, err error) {
	// The pdf reader panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extract text of page %d: %w", i, err)
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(content)
	}
	return sb.String(), nil
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
