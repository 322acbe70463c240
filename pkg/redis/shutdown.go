package redis

import (
	"context"
	"io"
)

// Shutdown wraps client.Close for intake.ShutdownHook, so the client
// drains alongside the HTTP server:
//
//	err := intake.Run(app, intake.ShutdownHook(redis.Shutdown(client)))
func Shutdown(client io.Closer) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return client.Close()
	}
}
