package broadcast

import (
	"context"
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"

	"github.com/ostvang/leaguedesk/internal/domain/notification"
	"github.com/ostvang/leaguedesk/internal/platform/resilience"
)

type PusherConfig struct {
	BaseURL string
	AppID   string
	Key     string
	Secret  string
	Timeout time.Duration
	Circuit resilience.CircuitBreakerConfig
}

// PusherClient delivers notification events to a Pusher-compatible
// realtime endpoint. Delivery is best effort: the breaker sheds load
// while the endpoint is down instead of queueing.
type PusherClient struct {
	client  *fasthttp.Client
	baseURL string
	appID   string
	key     string
	secret  string
	timeout time.Duration
	breaker *resilience.CircuitBreaker
	logger  *slog.Logger
	now     func() time.Time
}

func NewPusherClient(cfg PusherConfig, logger *slog.Logger) (*PusherClient, error) {
	if logger == nil {
		logger = slog.Default()
	}

	baseURL, err := validateBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, crerr.Wrap(err, "invalid broadcast base url")
	}
	if strings.TrimSpace(cfg.AppID) == "" {
		return nil, crerr.New("broadcast app id is required")
	}
	if strings.TrimSpace(cfg.Key) == "" || strings.TrimSpace(cfg.Secret) == "" {
		return nil, crerr.New("broadcast key and secret are required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	circuit := resilience.NormalizeCircuitBreakerConfig(cfg.Circuit)
	var breaker *resilience.CircuitBreaker
	if circuit.Enabled {
		breaker = resilience.NewCircuitBreaker(circuit.FailureThreshold, circuit.OpenTimeout, circuit.HalfOpenMaxReq)
	}

	return &PusherClient{
		client:  &fasthttp.Client{},
		baseURL: baseURL,
		appID:   strings.TrimSpace(cfg.AppID),
		key:     strings.TrimSpace(cfg.Key),
		secret:  strings.TrimSpace(cfg.Secret),
		timeout: timeout,
		breaker: breaker,
		logger:  logger,
		now:     time.Now,
	}, nil
}

// Push sends one event to its channel.
func (c *PusherClient) Push(ctx context.Context, event notification.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.breaker != nil {
		if err := c.breaker.Allow(); err != nil {
			return fmt.Errorf("broadcast endpoint unavailable: %w", err)
		}
	}

	body, err := encodeEventBody(event)
	if err != nil {
		return fmt.Errorf("encode broadcast event: %w", err)
	}

	requestURL := c.signedEventsURL(body)

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	err = c.client.DoTimeout(req, resp, c.timeout)
	if err != nil {
		c.recordResult(false)
		return fmt.Errorf("post broadcast event: %w", err)
	}

	status := resp.StatusCode()
	if status < 200 || status > 299 {
		transient := status >= 500 || status == fasthttp.StatusTooManyRequests
		c.recordResult(!transient)
		return fmt.Errorf("broadcast event rejected with status %d", status)
	}

	c.recordResult(true)
	return nil
}

func (c *PusherClient) recordResult(ok bool) {
	if c.breaker == nil {
		return
	}
	if ok {
		c.breaker.RecordSuccess()
		return
	}
	c.breaker.RecordFailure()
}

func encodeEventBody(event notification.Event) ([]byte, error) {
	data, err := sonic.Marshal(event.Payload)
	if err != nil {
		return nil, err
	}

	return sonic.Marshal(map[string]any{
		"name":     event.Name,
		"channels": []string{event.Channel},
		"data":     string(data),
	})
}

// signedEventsURL builds the events URL with Pusher's auth scheme:
// the query carries key, timestamp, version and body md5, and the
// signature is an HMAC-SHA256 over method, path and the sorted query.
func (c *PusherClient) signedEventsURL(body []byte) string {
	path := "/apps/" + c.appID + "/events"
	bodyMD5 := md5.Sum(body)

	query := "auth_key=" + c.key +
		"&auth_timestamp=" + strconv.FormatInt(c.now().Unix(), 10) +
		"&auth_version=1.0" +
		"&body_md5=" + hex.EncodeToString(bodyMD5[:])

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString(fasthttp.MethodPost)
	_ = buf.WriteByte('\n')
	_, _ = buf.WriteString(path)
	_ = buf.WriteByte('\n')
	_, _ = buf.WriteString(query)

	mac := hmac.New(sha256.New, []byte(c.secret))
	_, _ = mac.Write(buf.Bytes())
	signature := hex.EncodeToString(mac.Sum(nil))

	return c.baseURL + path + "?" + query + "&auth_signature=" + signature
}

func validateBaseURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}

	return strings.TrimRight(candidate, "/"), nil
}
