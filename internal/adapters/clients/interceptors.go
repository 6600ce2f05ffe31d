package clients

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/jsamuelsen/questboard/internal/platform/logging"
)

// maxErrorBody caps how much of an error response is kept.
const maxErrorBody = 1 << 20

// Interceptor wraps the transport. It sees every attempt's request on the
// way out and its response or failure on the way back.
type Interceptor func(next http.RoundTripper) http.RoundTripper

// RoundTripFunc adapts a function to http.RoundTripper.
type RoundTripFunc func(*http.Request) (*http.Response, error)

// RoundTrip implements http.RoundTripper.
func (f RoundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Failure classes used in logs.
const (
	failureServer     = "server_responded"
	failureNoResponse = "no_response"
	failureSetup      = "request_setup"
)

// LoggingInterceptor logs each outgoing request and incoming response. It
// never alters the request, the response or the error.
func LoggingInterceptor(downstream string) Interceptor {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripFunc(func(req *http.Request) (*http.Response, error) {
			logger := logging.FromContext(req.Context()).With(
				slog.String("downstream", downstream),
				slog.String("method", req.Method),
				slog.String("url", req.URL.String()),
			)

			logger.Log(req.Context(), logging.LevelTrace, "api request")

			resp, err := next.RoundTrip(req)
			if err != nil {
				logger.Debug("api request failed",
					slog.String("failure", failureNoResponse),
					slog.Any("error", err),
				)

				return nil, err
			}

			if resp.StatusCode >= http.StatusBadRequest {
				logger.Debug("api error response",
					slog.String("failure", failureServer),
					slog.Int("status", resp.StatusCode),
				)

				return resp, nil
			}

			logger.Log(req.Context(), logging.LevelTrace, "api response", slog.Int("status", resp.StatusCode))

			return resp, nil
		})
	}
}

// HeaderInterceptor sets headers on every attempt unless the request
// already carries them.
func HeaderInterceptor(headers map[string]string) Interceptor {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripFunc(func(req *http.Request) (*http.Response, error) {
			req = req.Clone(req.Context())
			for k, v := range headers {
				if req.Header.Get(k) == "" {
					req.Header.Set(k, v)
				}
			}

			return next.RoundTrip(req)
		})
	}
}

func chain(base http.RoundTripper, interceptors ...Interceptor) http.RoundTripper {
	rt := base
	for i := len(interceptors) - 1; i >= 0; i-- {
		rt = interceptors[i](rt)
	}

	return rt
}

func readLimited(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()

	return io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
}
