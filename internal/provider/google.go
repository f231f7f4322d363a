package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/buger/jsonparser"
	"github.com/oukeidos/tarjama/internal/apperrors"
	"github.com/oukeidos/tarjama/internal/httpclient"
	"github.com/oukeidos/tarjama/internal/logger"
	"github.com/oukeidos/tarjama/internal/version"
)

const googleBaseURL = "https://translate.googleapis.com"

// Google calls the public web translation endpoint. It needs no API key and
// is the default backend.
type Google struct {
	source  string
	target  string
	baseURL string
	client  *http.Client
}

// NewGoogle returns a Google backend for the given language codes.
func NewGoogle(source, target string) *Google {
	return &Google{
		source:  source,
		target:  target,
		baseURL: googleBaseURL,
	}
}

func (g *Google) httpClient() *http.Client {
	if g.client != nil {
		return g.client
	}
	return httpclient.GetDefaultClient()
}

// Translate sends text in one request and joins the returned segments.
func (g *Google) Translate(ctx context.Context, text string) (string, error) {
	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", g.source)
	q.Set("tl", g.target)
	q.Set("dt", "t")
	q.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/translate_a/single?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", version.UserAgent())

	body, resp, err := httpclient.DoAndRead(g.httpClient(), req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", apperrors.New(
			apperrors.KindTransient,
			"Google translate request failed due to a temporary network/runtime error.",
			fmt.Errorf("request failed: %w", err),
		)
	}
	if resp.StatusCode != http.StatusOK {
		return "", classifyHTTPStatus("Google translate", resp.StatusCode, fmt.Errorf("google status=%s", resp.Status))
	}

	out, err := parseGoogleResponse(body)
	if err != nil {
		return "", apperrors.New(apperrors.KindValidation, "Google translate response format was invalid.", err)
	}
	logger.Debug("Google translate response", "status", resp.StatusCode, "bytes", len(body))
	return out, nil
}

// parseGoogleResponse reads the first element of the response, a list of
// [translated, original, ...] segments, and concatenates the translations.
func parseGoogleResponse(body []byte) (string, error) {
	var b strings.Builder
	var segErr error
	_, err := jsonparser.ArrayEach(body, func(seg []byte, dataType jsonparser.ValueType, _ int, _ error) {
		if segErr != nil || dataType != jsonparser.Array {
			return
		}
		v, vt, _, err := jsonparser.Get(seg, "[0]")
		if err != nil || vt == jsonparser.Null {
			return
		}
		if vt != jsonparser.String {
			segErr = fmt.Errorf("segment is %s, not a string", vt)
			return
		}
		part, err := jsonparser.ParseString(v)
		if err != nil {
			segErr = fmt.Errorf("failed to decode segment: %w", err)
			return
		}
		b.WriteString(part)
	}, "[0]")
	if err != nil {
		return "", fmt.Errorf("failed to read segments: %w", err)
	}
	if segErr != nil {
		return "", segErr
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("response contained no translated segments")
	}
	return b.String(), nil
}
