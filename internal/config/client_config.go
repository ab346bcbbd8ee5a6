package config

import "time"

type ClientConfig interface {
	GetRequestTimeout() time.Duration
	GetCoalesceRefresh() bool
}

type Client struct{}

var _ ClientConfig = Client{}

func (Client) GetRequestTimeout() time.Duration {
	return getDuration("API_TIMEOUT", 30*time.Second)
}

// GetCoalesceRefresh reports whether concurrent 401s share one refresh call.
func (Client) GetCoalesceRefresh() bool {
	return getBool("API_COALESCE_REFRESH", true)
}
