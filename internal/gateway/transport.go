package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/Belphemur/Raznime/internal/config"
	"github.com/failsafe-go/failsafe-go/failsafehttp"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
)

const maxRetries = 2

// newTransport layers retries over decompression over a cloned default transport,
// routed through proxy when one is configured.
func newTransport(proxy string) http.RoundTripper {
	base := http.DefaultTransport.(*http.Transport).Clone()

	if proxy != "" {
		proxyURL, err := url.Parse(proxy)
		if err != nil {
			logger := config.GetLogger()
			logger.Warn().Err(err).Str("proxy", proxy).Msg("Invalid proxy URL, continuing without proxy")
		} else {
			base.Proxy = http.ProxyURL(proxyURL)
		}
	}

	return failsafehttp.NewRoundTripper(newCompressionTransport(base), newRetryPolicy())
}

func newRetryPolicy() retrypolicy.RetryPolicy[*http.Response] {
	return retrypolicy.NewBuilder[*http.Response]().
		HandleIf(shouldRetry).
		WithBackoff(200*time.Millisecond, 2*time.Second).
		WithMaxRetries(maxRetries).
		ReturnLastFailure().
		Build()
}

// shouldRetry retries transport failures, rate limiting and server errors. Cancelled
// requests are never retried.
func shouldRetry(resp *http.Response, err error) bool {
	if err != nil {
		return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
	}
	return resp != nil && (resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError)
}
