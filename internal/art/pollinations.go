package art

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Pollinations generates images with the free pollinations.ai endpoint.
// No key is needed.
type Pollinations struct {
	BaseURL  string
	Client   *http.Client
	Attempts int
	Backoff  time.Duration
}

func NewPollinations() *Pollinations {
	return &Pollinations{
		BaseURL:  "https://image.pollinations.ai",
		Client:   newHTTPClient(),
		Attempts: 3,
		Backoff:  time.Second,
	}
}

func (p *Pollinations) Name() string { return ProviderPollinations }

// URL returns the GET endpoint for prompt; the whole prompt is one path
// segment.
func (p *Pollinations) URL(prompt string, width, height int) string {
	q := url.Values{}
	q.Set("width", strconv.Itoa(width))
	q.Set("height", strconv.Itoa(height))
	q.Set("nologo", "true")
	return p.BaseURL + "/prompt/" + url.PathEscape(prompt) + "?" + q.Encode()
}

func (p *Pollinations) Generate(ctx context.Context, prompt string, width, height int) ([]byte, error) {
	var body []byte
	err := retry(ctx, p.Attempts, p.Backoff, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL(prompt, width, height), nil)
		if err != nil {
			return err
		}
		body, err = do(p.Client, req)
		return err
	})
	return body, err
}
