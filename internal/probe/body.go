package probe

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/brotli"
	"golang.org/x/net/html/charset"
)

// readBody returns the response body as UTF-8 text. Any read, decompression
// or transcoding failure yields "" so the page is still classified. limit
// bounds the bytes read off the wire and each decoded stage.
func readBody(resp *http.Response, limit int64) (string, error) {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	data, err := decompress(resp.Header.Get("Content-Encoding"), raw, limit)
	if err != nil {
		return "", err
	}

	return transcode(data, resp.Header.Get("Content-Type"), limit)
}

// decompress decodes data per Content-Encoding, keeping at most limit
// decoded bytes.
func decompress(encoding string, data []byte, limit int64) ([]byte, error) {
	var r io.Reader
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "identity":
		return data, nil
	case "gzip", "x-gzip":
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("gzip body: %w", err)
		}
		defer zr.Close()
		r = zr
	case "deflate":
		fr := flate.NewReader(bytes.NewReader(data))
		defer fr.Close()
		r = fr
	case "br":
		r = brotli.NewReader(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", encoding)
	}

	out, err := io.ReadAll(io.LimitReader(r, limit))
	if err != nil {
		return nil, fmt.Errorf("decompress %s body: %w", encoding, err)
	}
	return out, nil
}

// transcode converts data to UTF-8 using the Content-Type charset, a BOM,
// or a <meta> declaration, in that order. Output is cut at limit bytes.
func transcode(data []byte, contentType string, limit int64) (string, error) {
	if len(data) == 0 {
		return "", nil
	}

	r, err := charset.NewReader(bytes.NewReader(data), contentType)
	if err != nil {
		return "", fmt.Errorf("detect charset: %w", err)
	}
	out, err := io.ReadAll(io.LimitReader(r, limit))
	if err != nil {
		return "", fmt.Errorf("transcode body: %w", err)
	}
	return string(out), nil
}

// pageTitle returns the whitespace-collapsed <title> of an HTML page.
func pageTitle(body string) string {
	if body == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return ""
	}
	return strings.Join(strings.Fields(doc.Find("title").First().Text()), " ")
}
