package utils

import (
	"log"
	"os"

	"github.com/getsentry/sentry-go"
)

var sentryEnabled bool

// InitSentry initializes Sentry for error tracking. Without SENTRY_DSN
// set, reporting is disabled and CaptureError becomes a no-op.
func InitSentry() {
	dsn := os.Getenv("SENTRY_DSN")
	if dsn == "" {
		log.Println("SENTRY_DSN not set, error reporting disabled")
		return
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		EnableTracing:    true,
		TracesSampleRate: 1.0,
	})
	if err != nil {
		log.Fatalf("sentry.Init: %s", err)
	}

	sentryEnabled = true
	log.Println("Sentry initialized")
}

// CaptureError reports an unexpected fault to Sentry.
func CaptureError(err error) {
	if !sentryEnabled || err == nil {
		return
	}
	sentry.CaptureException(err)
}
