package apiclient

import "github.com/rs/zerolog"

type requestOptions struct {
	withoutAuth     bool
	withoutRedirect bool
	query           map[string]string
}

// RequestOption adjusts a single Request.
type RequestOption func(*requestOptions)

// WithoutAuth sends the request without a bearer token and without the 401 refresh path.
// Used for the auth endpoints themselves.
func WithoutAuth() RequestOption {
	return func(o *requestOptions) {
		o.withoutAuth = true
	}
}

// WithoutRedirect keeps the session when the refresh after a 401 fails: the request fails with
// an auth error, but tokens stay stored, no expiry hook runs and there is no navigation to /login.
// Used for requests such as enrollment where the caller shows its own sign-in prompt.
func WithoutRedirect() RequestOption {
	return func(o *requestOptions) {
		o.withoutRedirect = true
	}
}

func WithQuery(key, value string) RequestOption {
	return func(o *requestOptions) {
		if o.query == nil {
			o.query = make(map[string]string)
		}
		o.query[key] = value
	}
}

// restyLogger routes resty's internal messages to zerolog.
type restyLogger struct {
	log zerolog.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) {
	l.log.Error().Msgf(format, v...)
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	l.log.Warn().Msgf(format, v...)
}

func (l restyLogger) Debugf(format string, v ...interface{}) {
	l.log.Debug().Msgf(format, v...)
}
