package docrender

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Renderer turns a quote payload into a PDF document. The production
// implementation calls an external render service; when none is configured a
// noop renderer reports the feature unavailable instead of failing requests at
// startup.
type Renderer interface {
	RenderQuote(ctx context.Context, payload QuotePayload) ([]byte, error)
}

var ErrNotConfigured = errors.New("document renderer is not configured")

type QuoteLine struct {
	ProductId   int             `json:"product_id"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

type QuotePayload struct {
	OrderId     int             `json:"order_id"`
	Status      string          `json:"status"`
	CompanyName string          `json:"company_name"`
	ClientName  string          `json:"client_name"`
	SellerName  string          `json:"seller_name"`
	CreatedAt   time.Time       `json:"created_at"`
	Lines       []QuoteLine     `json:"lines"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

type httpRenderer struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

type noopRenderer struct{}

func (noopRenderer) RenderQuote(context.Context, QuotePayload) ([]byte, error) {
	return nil, ErrNotConfigured
}

// NewFromEnv builds the renderer from DOC_RENDER_BASE_URL and
// DOC_RENDER_API_KEY.
func NewFromEnv() Renderer {
	baseURL := strings.TrimSpace(os.Getenv("DOC_RENDER_BASE_URL"))
	if baseURL == "" {
		return noopRenderer{}
	}
	return &httpRenderer{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  strings.TrimSpace(os.Getenv("DOC_RENDER_API_KEY")),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (r *httpRenderer) RenderQuote(ctx context.Context, payload QuotePayload) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/render/quote", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/pdf")
	if r.apiKey != "" {
		req.Header.Set("X-API-Key", r.apiKey)
	}

	resp, err := r.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	pdf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("render service error %d: %s", resp.StatusCode, strings.TrimSpace(string(pdf)))
	}
	return pdf, nil
}
