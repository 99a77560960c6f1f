package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/cropsight/cropsight/internal/config"
	"github.com/cropsight/cropsight/internal/metrics"
)

const (
	imageField         = "image"
	defaultFilename    = "leaf.jpg"
	defaultContentType = "image/jpeg"

	// maxErrorBody caps how much of an error response is echoed into
	// the failure message.
	maxErrorBody = 2048
)

// Image is one photograph submitted for classification.
type Image struct {
	Data        []byte
	Filename    string
	ContentType string
}

// Client sends one image to the external classifier and normalizes the
// response into a Result. Implementations never return an error.
type Client interface {
	Classify(ctx context.Context, img Image) Result
}

type predictionResponse struct {
	IsLeaf     *bool    `json:"is_leaf"`
	Reason     string   `json:"reason"`
	Prediction string   `json:"prediction"`
	Confidence *float64 `json:"confidence"`
	Top5       []struct {
		Label string   `json:"label"`
		Prob  *float64 `json:"prob"`
	} `json:"top5"`
	Error string `json:"error"`
}

type client struct {
	http       *http.Client
	predictURL string
	logger     *slog.Logger
}

// New creates an HTTP classifier client with a bounded per-call timeout.
func New(cfg *config.ClassifierConfig, logger *slog.Logger) Client {
	return &client{
		http:       &http.Client{Timeout: cfg.TimeoutDuration()},
		predictURL: cfg.PredictURL(),
		logger:     logger.With("system", "classifier"),
	}
}

// Classify issues a single multipart request per image. No retries; the
// caller decides batch policy. All faults come back as Failed results.
func (c *client) Classify(ctx context.Context, img Image) Result {
	start := time.Now()
	result := c.classify(ctx, img)
	metrics.ClassifierDuration.Observe(time.Since(start).Seconds())
	metrics.ClassifierRequests.WithLabelValues(string(result.Kind)).Inc()

	if result.IsFailed() {
		c.logger.Warn("classification failed", "error", result.Failed.Message)
	}
	return result
}

func (c *client) classify(ctx context.Context, img Image) Result {
	body, contentType, err := encodeMultipart(img)
	if err != nil {
		return NewFailed(fmt.Sprintf("classifier unavailable: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.predictURL, body)
	if err != nil {
		return NewFailed(fmt.Sprintf("classifier unavailable: %v", err))
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return NewFailed(fmt.Sprintf("classifier unavailable: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return NewFailed(fmt.Sprintf(
			"classifier error (%d): %s",
			resp.StatusCode,
			strings.TrimSpace(string(errBody)),
		))
	}

	var pred predictionResponse
	if err := json.NewDecoder(resp.Body).Decode(&pred); err != nil {
		return NewFailed(fmt.Sprintf("classifier unavailable: %v", err))
	}

	return normalize(pred)
}

func normalize(pred predictionResponse) Result {
	if pred.Error != "" {
		return NewFailed(pred.Error)
	}

	if pred.IsLeaf == nil || !*pred.IsLeaf {
		reason := pred.Reason
		if reason == "" {
			reason = "image rejected by leaf gate"
		}
		return NewRejected(reason)
	}

	alternatives := make([]Alternative, 0, len(pred.Top5))
	for _, alt := range pred.Top5 {
		alternatives = append(alternatives, Alternative{
			Label: Label(alt.Label),
			Prob:  alt.Prob,
		})
	}

	return NewAccepted(Label(pred.Prediction), pred.Confidence, alternatives)
}

func encodeMultipart(img Image) (*bytes.Buffer, string, error) {
	filename := img.Filename
	if filename == "" {
		filename = defaultFilename
	}
	contentType := img.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}

	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(
		`form-data; name=%q; filename=%q`,
		imageField, filename,
	))
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("create multipart part: %w", err)
	}
	if _, err := part.Write(img.Data); err != nil {
		return nil, "", fmt.Errorf("write image bytes: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}

	return buf, writer.FormDataContentType(), nil
}
