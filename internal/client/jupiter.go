package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/AlexZinkM/goldium-wallet/internal/logger"
	"github.com/AlexZinkM/goldium-wallet/internal/model"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	jupiterAPI = "https://quote-api.jup.ag/v6"
)

var retryableStatusCodes = map[int]bool{
	http.StatusRequestTimeout:      true,
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// HTTPError represents an error returned from an HTTP request
type HTTPError struct {
	StatusCode int
	Method     string
	URL        string
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s %s failed with status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// ErrMalformedResponse is returned when the aggregator answers with something unusable
var ErrMalformedResponse = errors.New("malformed aggregator response")

// JupiterClient client for the Jupiter swap aggregator API. It implements Aggregator.
type JupiterClient struct {
	baseURL    string
	client     *http.Client
	limiter    *rate.Limiter
	maxRetries uint64
}

// JupiterOption configures a JupiterClient
type JupiterOption func(*JupiterClient)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) JupiterOption {
	return func(c *JupiterClient) {
		c.client = hc
	}
}

// WithMaxRetries sets the retry budget for retryable status codes and transport errors
func WithMaxRetries(n uint64) JupiterOption {
	return func(c *JupiterClient) {
		c.maxRetries = n
	}
}

// NewJupiterClient creates a new Jupiter client. requestsPerSecond <= 0 disables rate limiting.
func NewJupiterClient(baseURL string, requestsPerSecond float64, opts ...JupiterOption) *JupiterClient {
	if baseURL == "" {
		baseURL = jupiterAPI
	}
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}
	c := &JupiterClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		limiter:    rate.NewLimiter(limit, 1),
		maxRetries: 3,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type jupiterSwapInfo struct {
	AmmKey     string `json:"ammKey"`
	Label      string `json:"label"`
	InputMint  string `json:"inputMint"`
	OutputMint string `json:"outputMint"`
	InAmount   string `json:"inAmount"`
	OutAmount  string `json:"outAmount"`
}

type jupiterQuoteResponse struct {
	InputMint            string `json:"inputMint"`
	InAmount             string `json:"inAmount"`
	OutputMint           string `json:"outputMint"`
	OutAmount            string `json:"outAmount"`
	OtherAmountThreshold string `json:"otherAmountThreshold"`
	SlippageBps          uint16 `json:"slippageBps"`
	PriceImpactPct       string `json:"priceImpactPct"`
	RoutePlan            []struct {
		SwapInfo jupiterSwapInfo `json:"swapInfo"`
		Percent  int             `json:"percent"`
	} `json:"routePlan"`
}

type jupiterSwapRequest struct {
	QuoteResponse                 json.RawMessage `json:"quoteResponse"`
	UserPublicKey                 string          `json:"userPublicKey"`
	WrapAndUnwrapSol              bool            `json:"wrapAndUnwrapSol"`
	DynamicComputeUnitLimit       bool            `json:"dynamicComputeUnitLimit"`
	ComputeUnitPriceMicroLamports uint64          `json:"computeUnitPriceMicroLamports,omitempty"`
}

type jupiterSwapResponse struct {
	SwapTransaction      string `json:"swapTransaction"`
	LastValidBlockHeight uint64 `json:"lastValidBlockHeight"`
}

// Quote requests the best route for swapping params.Amount of the input mint
func (c *JupiterClient) Quote(ctx context.Context, params QuoteParams) (*model.Quote, error) {
	q := url.Values{}
	q.Set("inputMint", params.InputMint.String())
	q.Set("outputMint", params.OutputMint.String())
	q.Set("amount", strconv.FormatUint(params.Amount, 10))
	q.Set("slippageBps", strconv.FormatUint(uint64(params.SlippageBps), 10))

	body, err := c.do(ctx, http.MethodGet, c.baseURL+"/quote?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}

	quote, err := parseQuote(body)
	if err != nil {
		return nil, err
	}
	return quote, nil
}

// SwapTransaction requests a prebuilt transaction for an accepted quote
func (c *JupiterClient) SwapTransaction(ctx context.Context, params SwapParams) (*SwapTransaction, error) {
	if params.Quote == nil || len(params.Quote.Raw) == 0 {
		return nil, fmt.Errorf("%w: quote has no raw payload", ErrMalformedResponse)
	}

	reqBody, err := json.Marshal(jupiterSwapRequest{
		QuoteResponse:                 params.Quote.Raw,
		UserPublicKey:                 params.UserPublicKey.String(),
		WrapAndUnwrapSol:              true,
		DynamicComputeUnitLimit:       true,
		ComputeUnitPriceMicroLamports: params.PriorityFeeMicroLamports,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal swap request: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, c.baseURL+"/swap", reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to get swap transaction: %w", err)
	}

	var resp jupiterSwapResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if resp.SwapTransaction == "" {
		return nil, fmt.Errorf("%w: empty swapTransaction", ErrMalformedResponse)
	}

	return &SwapTransaction{
		Transaction:          resp.SwapTransaction,
		LastValidBlockHeight: resp.LastValidBlockHeight,
	}, nil
}

// do performs a rate-limited request, retrying transport errors and retryable statuses
func (c *JupiterClient) do(ctx context.Context, method, fullURL string, payload []byte) ([]byte, error) {
	start := time.Now()
	var body []byte

	operation := func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode >= 400 {
			httpErr := &HTTPError{StatusCode: resp.StatusCode, Method: method, URL: fullURL, Body: string(data)}
			if retryableStatusCodes[resp.StatusCode] {
				return httpErr
			}
			return backoff.Permanent(httpErr)
		}

		body = data
		return nil
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = 100 * time.Millisecond
	expBackoff.MaxInterval = 2 * time.Second

	err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(expBackoff, c.maxRetries), ctx))
	if err != nil {
		logger.Warn("aggregator request failed",
			zap.String("method", method),
			zap.String("url", fullURL),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return nil, err
	}

	logger.Debug("aggregator request successful",
		zap.String("method", method),
		zap.String("url", fullURL),
		zap.Duration("duration", time.Since(start)))
	return body, nil
}

func parseQuote(body []byte) (*model.Quote, error) {
	var resp jupiterQuoteResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	inAmount, err := strconv.ParseUint(resp.InAmount, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: inAmount %q", ErrMalformedResponse, resp.InAmount)
	}
	outAmount, err := strconv.ParseUint(resp.OutAmount, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: outAmount %q", ErrMalformedResponse, resp.OutAmount)
	}
	threshold, _ := strconv.ParseUint(resp.OtherAmountThreshold, 10, 64)

	quote := &model.Quote{
		InputMint:            resp.InputMint,
		OutputMint:           resp.OutputMint,
		InAmount:             inAmount,
		OutAmount:            outAmount,
		OtherAmountThreshold: threshold,
		SlippageBps:          resp.SlippageBps,
		Raw:                  json.RawMessage(body),
	}

	if resp.PriceImpactPct != "" {
		impact, err := strconv.ParseFloat(resp.PriceImpactPct, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: priceImpactPct %q", ErrMalformedResponse, resp.PriceImpactPct)
		}
		quote.PriceImpactPct = impact
		quote.PriceImpactReported = true
	}

	for _, step := range resp.RoutePlan {
		in, _ := strconv.ParseUint(step.SwapInfo.InAmount, 10, 64)
		out, _ := strconv.ParseUint(step.SwapInfo.OutAmount, 10, 64)
		quote.Routes = append(quote.Routes, model.RouteStep{
			Label:      step.SwapInfo.Label,
			AmmKey:     step.SwapInfo.AmmKey,
			InputMint:  step.SwapInfo.InputMint,
			OutputMint: step.SwapInfo.OutputMint,
			InAmount:   in,
			OutAmount:  out,
			Percent:    step.Percent,
		})
	}
	return quote, nil
}
