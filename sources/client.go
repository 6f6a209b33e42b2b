package sources

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/net/proxy"
)

// NewHTTPClient builds the client shared by the feed source and the webhook.
// socks5 proxies are dialed through x/net/proxy, http(s) proxies go through
// the transport.
func NewHTTPClient(proxyURL string, timeout time.Duration) (*http.Client, error) {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := &http.Client{Timeout: timeout}

	if proxyURL == "" {
		return client, nil
	}

	parsedURL, err := url.Parse(proxyURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse proxy url")
	}

	switch parsedURL.Scheme {
	case "http", "https":
		client.Transport = &http.Transport{Proxy: http.ProxyURL(parsedURL)}
		slog.Info("using http proxy", "proxy", parsedURL.Host)
		return client, nil
	case "socks5", "socks5h":
	default:
		return nil, errors.Errorf("unsupported proxy scheme %q", parsedURL.Scheme)
	}

	var auth *proxy.Auth
	if parsedURL.User != nil {
		password, _ := parsedURL.User.Password()
		auth = &proxy.Auth{
			User:     parsedURL.User.Username(),
			Password: password,
		}
	}

	dialer, err := proxy.SOCKS5("tcp", parsedURL.Host, auth, proxy.Direct)
	if err != nil {
		return nil, errors.Wrap(err, "create socks5 dialer")
	}

	client.Transport = &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			if cd, ok := dialer.(proxy.ContextDialer); ok {
				return cd.DialContext(ctx, network, addr)
			}
			return dialer.Dial(network, addr)
		},
	}
	slog.Info("using SOCKS5 proxy", "proxy", parsedURL.Host)

	return client, nil
}

// TruncateError shortens an error message to 300 characters for logging.
func TruncateError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if len(msg) > 300 {
		return errors.Errorf("%s...", msg[:300])
	}
	return err
}
