package cache

import (
	"context"
	"time"
)

// Nop is used when no cache server is configured: every Get misses.
type Nop struct{}

func (Nop) Get(context.Context, string, interface{}) (bool, error)          { return false, nil }
func (Nop) Set(context.Context, string, interface{}, time.Duration) error { return nil }
func (Nop) Delete(context.Context, ...string) error                       { return nil }
func (Nop) Ping(context.Context) error                                    { return nil }
