package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	mprof "github.com/nfdi-tools/magsub/cmd/magsub/config/profiles"
	"github.com/nfdi-tools/magsub/pkg/utils/retry"
)

const (
	defaultPollInterval = 5 * time.Second
	defaultMaxPolls     = 120
)

type Client interface {
	// Register sends one registration document to the submission queue and
	// waits for its receipt.
	//
	// # Args
	//
	// - context.Context
	//
	// - document: the XML document to be queued.
	//
	// # Returns
	//
	// - []byte: the raw receipt XML, once the queue has processed the
	// document.
	//
	// - error: transport errors, rejection by the endpoint, or
	// retry.ErrExhausted when the queue does not settle in time.
	Register(ctx context.Context, document []byte) ([]byte, error)
}

type client struct {
	httpclient   *http.Client
	queueURL     string
	user         string
	password     string
	pollInterval time.Duration
	maxPolls     int
}

type ClientOption func(*client)

// WithPollInterval sets the wait between receipt polls.
func WithPollInterval(interval time.Duration) ClientOption {
	return func(c *client) {
		c.pollInterval = interval
	}
}

// WithMaxPolls caps how often a receipt is polled before giving up.
func WithMaxPolls(max int) ClientOption {
	return func(c *client) {
		c.maxPolls = max
	}
}

// WithQueueURL overrides the submission queue endpoint derived from the
// profile's portal.
func WithQueueURL(url string) ClientOption {
	return func(c *client) {
		c.queueURL = url
	}
}

// NewClient builds a Client out of a profile.
func NewClient(prof *mprof.MagsubProfile, options ...ClientOption) (Client, error) {
	if err := prof.Verify(); err != nil {
		return nil, err
	}

	c := &client{
		httpclient:   new(http.Client),
		queueURL:     prof.QueueURL(),
		user:         prof.User,
		password:     prof.Password,
		pollInterval: defaultPollInterval,
		maxPolls:     defaultMaxPolls,
	}
	for _, opt := range options {
		opt(c)
	}

	return c, nil
}

// queued is the response of the submission queue endpoint.
type queued struct {
	Links struct {
		Poll struct {
			Href string `json:"href"`
		} `json:"poll"`
	} `json:"_links"`
}

func (c *client) Register(ctx context.Context, document []byte) ([]byte, error) {
	pollURL, err := c.enqueue(ctx, document)
	if err != nil {
		return nil, err
	}

	// The queue answers 202 while the document is still being processed.
	return retry.Blocking(
		ctx,
		retry.Limited(retry.StaticBackoff(c.pollInterval), c.maxPolls),
		func() ([]byte, error) { return c.poll(ctx, pollURL) },
	)
}

func (c *client) enqueue(ctx context.Context, document []byte) (string, error) {
	body := new(bytes.Buffer)
	mw := multipart.NewWriter(body)

	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="submit.xml"`)
	hdr.Set("Content-Type", "text/xml")
	part, err := mw.CreatePart(hdr)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(document); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.queueURL, body)
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.user, c.password)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if 300 <= resp.StatusCode {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf(
			"submission queue rejected the document: %s: %s",
			resp.Status, string(excerpt),
		)
	}

	q := queued{}
	if err := json.NewDecoder(resp.Body).Decode(&q); err != nil {
		return "", fmt.Errorf("submission queue response is broken: %w", err)
	}
	if q.Links.Poll.Href == "" {
		return "", fmt.Errorf("submission queue response has no poll link")
	}
	return q.Links.Poll.Href, nil
}

func (c *client) poll(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.user, c.password)

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return io.ReadAll(resp.Body)
	case resp.StatusCode == http.StatusAccepted:
		return nil, retry.ErrRetry
	case 500 <= resp.StatusCode:
		// server-side hiccups share the polling budget with 202.
		return nil, retry.ErrRetry
	default:
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf(
			"polling receipt failed: %s: %s", resp.Status, string(excerpt),
		)
	}
}
