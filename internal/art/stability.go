package art

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/youruser/cardforge/internal/errors"
)

// StabilityKeyEnv names the environment variable holding the API key.
const StabilityKeyEnv = "STABILITY_API_KEY"

// Stability calls the Stability AI SDXL text-to-image endpoint.
type Stability struct {
	Endpoint string
	APIKey   string
	Client   *http.Client
	Attempts int
	Backoff  time.Duration

	CFGScale float64
	Steps    int
}

// NewStability uses apiKey, or $STABILITY_API_KEY when it is empty.
func NewStability(apiKey string) *Stability {
	if apiKey == "" {
		apiKey = os.Getenv(StabilityKeyEnv)
	}
	return &Stability{
		Endpoint: "https://api.stability.ai/v1/generation/stable-diffusion-xl-1024-v1-0/text-to-image",
		APIKey:   apiKey,
		Client:   newHTTPClient(),
		Attempts: 3,
		Backoff:  time.Second,
		CFGScale: 7,
		Steps:    30,
	}
}

func (s *Stability) Name() string { return ProviderStability }

type textPrompt struct {
	Text string `json:"text"`
}

type stabilityRequest struct {
	TextPrompts []textPrompt `json:"text_prompts"`
	CFGScale    float64      `json:"cfg_scale"`
	Height      int          `json:"height"`
	Width       int          `json:"width"`
	Samples     int          `json:"samples"`
	Steps       int          `json:"steps"`
}

type stabilityResponse struct {
	Artifacts []struct {
		Base64       string `json:"base64"`
		FinishReason string `json:"finishReason"`
	} `json:"artifacts"`
}

func (s *Stability) Generate(ctx context.Context, prompt string, width, height int) ([]byte, error) {
	if s.APIKey == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "stability provider needs an API key in $%s", StabilityKeyEnv)
	}
	payload, err := json.Marshal(stabilityRequest{
		TextPrompts: []textPrompt{{Text: prompt}},
		CFGScale:    s.CFGScale,
		Height:      height,
		Width:       width,
		Samples:     1,
		Steps:       s.Steps,
	})
	if err != nil {
		return nil, err
	}

	var raw []byte
	err = retry(ctx, s.Attempts, s.Backoff, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Endpoint, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Authorization", "Bearer "+s.APIKey)
		raw, err = do(s.Client, req)
		return err
	})
	if err != nil {
		return nil, err
	}

	var resp stabilityResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecodeFailed, err, "parse stability response")
	}
	if len(resp.Artifacts) == 0 {
		return nil, errors.New(errors.ErrCodeDecodeFailed, "stability response has no artifacts")
	}
	img, err := base64.StdEncoding.DecodeString(resp.Artifacts[0].Base64)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecodeFailed, err, "decode stability artifact")
	}
	return img, nil
}
