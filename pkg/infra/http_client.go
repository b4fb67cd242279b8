package infra

import (
	"time"

	"github.com/imroc/req/v3"
)

// Shared client for calls to the upstream results portal. The portal is
// flaky under load, so retry with a fixed interval instead of failing the
// request outright.
func ProvideHttpClient() *req.Client {
	return req.C().
		SetTimeout(10 * time.Second).
		SetCommonRetryCount(3).
		SetCommonRetryFixedInterval(3 * time.Second).
		SetUserAgent("Mozilla/5.0")
}
