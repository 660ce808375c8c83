package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"jobguard/pkg/logger"
)

// ErrExtractionFailed marks any failure of the OCR backend. Extraction
// errors are surfaced to the caller, never mapped to empty text: a visible
// error beats a silent "no text detected".
var ErrExtractionFailed = errors.New("text extraction failed")

// OCRClient extracts text from uploaded listing screenshots via the
// OCR.space API
type OCRClient struct {
	apiKey     string
	apiURL     string
	language   string
	httpClient *http.Client
	logger     *logger.Logger
}

// OCRConfig holds configuration for the OCR client
type OCRConfig struct {
	APIKey   string
	APIURL   string
	Language string
	Timeout  time.Duration
}

// NewOCRClient creates a new OCR.space client
func NewOCRClient(cfg OCRConfig, log *logger.Logger) *OCRClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.APIURL == "" {
		cfg.APIURL = "https://api.ocr.space/parse/image"
	}
	if cfg.Language == "" {
		cfg.Language = "eng"
	}

	return &OCRClient{
		apiKey:   cfg.APIKey,
		apiURL:   cfg.APIURL,
		language: cfg.Language,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: log.WithComponent("ocr-client"),
	}
}

// ocrResponse mirrors the OCR.space parse response
type ocrResponse struct {
	IsErroredOnProcessing bool `json:"IsErroredOnProcessing"`
	ParsedResults         []struct {
		ParsedText string `json:"ParsedText"`
	} `json:"ParsedResults"`
	ErrorMessage json.RawMessage `json:"ErrorMessage"`
}

// ExtractText submits image bytes and returns the recognized text. The
// result is raw; callers normalize it like any typed input.
func (c *OCRClient) ExtractText(ctx context.Context, image []byte, filename string) (string, error) {
	if filename == "" {
		filename = "upload.png"
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}
	if _, err := part.Write(image); err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}
	writer.WriteField("apikey", c.apiKey)
	writer.WriteField("language", c.language)
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, &body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: OCR API error %d: %s", ErrExtractionFailed, resp.StatusCode, string(respBody))
	}

	var parsed ocrResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("%w: malformed OCR response: %v", ErrExtractionFailed, err)
	}

	if parsed.IsErroredOnProcessing {
		return "", fmt.Errorf("%w: OCR processing error: %s", ErrExtractionFailed, string(parsed.ErrorMessage))
	}

	if len(parsed.ParsedResults) == 0 {
		return "", fmt.Errorf("%w: OCR returned no parse results", ErrExtractionFailed)
	}

	text := parsed.ParsedResults[0].ParsedText
	c.logger.Debug().Int("bytes", len(image)).Int("chars", len(text)).Msg("image text extracted")

	return text, nil
}
