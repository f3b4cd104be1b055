// Package api holds the client for the remote vision-extraction service,
// which reads team/rank/kill data out of lobby screenshots.
package api

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"strconv"
	"time"

	"lobby-tracker/internal/config"
	"lobby-tracker/internal/constants"

	"github.com/valyala/fasthttp"
)

type VisionClient struct {
	baseURL string
	apiKey  string
	client  *fasthttp.Client
}

// ImageFile is one screenshot to run through extraction.
type ImageFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// ExtractOptions tune how the service slices a screenshot before reading
// it. Nil fields are omitted and the service applies its defaults.
type ExtractOptions struct {
	LobbyID    string
	Split      *bool
	SplitRatio *float64
	CropTop    *float64
	CropBottom *float64
}

func NewVisionClient(cfg *config.Config) *VisionClient {
	return &VisionClient{
		baseURL: cfg.VisionAPIURL,
		apiKey:  cfg.VisionAPIKey,
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         constants.ExternalAPITimeout,
			WriteTimeout:        constants.ExternalAPITimeout,
			MaxIdleConnDuration: 1 * time.Minute,
		},
	}
}

// ExtractResults uploads the screenshots and returns the raw response
// body. Parsing the payload is the caller's concern.
func (c *VisionClient) ExtractResults(ctx context.Context, images []ImageFile, opts ExtractOptions) ([]byte, error) {
	if len(images) == 0 {
		return nil, fmt.Errorf("no images to extract")
	}

	body, contentType, err := buildForm(images, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart form: %w", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + "/extract-results")
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType(contentType)
	if c.apiKey != "" {
		req.Header.Set("Authorization", c.apiKey)
	}
	req.SetBody(body)

	if deadline, ok := ctx.Deadline(); ok {
		err = c.client.DoDeadline(req, resp, deadline)
	} else {
		err = c.client.Do(req, resp)
	}
	if err != nil {
		return nil, err
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("extraction API error: %d", resp.StatusCode())
	}

	out := make([]byte, len(resp.Body()))
	copy(out, resp.Body())
	return out, nil
}

func buildForm(images []ImageFile, opts ExtractOptions) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for i, img := range images {
		name := img.Name
		if name == "" {
			name = fmt.Sprintf("image_%d.png", i)
		}
		part, err := w.CreateFormFile("images", name)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(img.Data); err != nil {
			return nil, "", err
		}
	}

	if opts.LobbyID != "" {
		if err := w.WriteField("lobby_id", opts.LobbyID); err != nil {
			return nil, "", err
		}
	}
	if opts.Split != nil {
		if err := w.WriteField("split", strconv.FormatBool(*opts.Split)); err != nil {
			return nil, "", err
		}
	}
	if opts.SplitRatio != nil {
		if err := w.WriteField("split_ratio", strconv.FormatFloat(*opts.SplitRatio, 'f', -1, 64)); err != nil {
			return nil, "", err
		}
	}
	if opts.CropTop != nil {
		if err := w.WriteField("crop_top", strconv.FormatFloat(*opts.CropTop, 'f', -1, 64)); err != nil {
			return nil, "", err
		}
	}
	if opts.CropBottom != nil {
		if err := w.WriteField("crop_bottom", strconv.FormatFloat(*opts.CropBottom, 'f', -1, 64)); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
