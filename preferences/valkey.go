package preferences

import (
	"context"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"
)

// ValkeyBackend stores preferences in Valkey (Redis-compatible)
type ValkeyBackend struct {
	client  valkey.Client
	prefix  string
	timeout time.Duration
}

// NewValkeyBackend connects to addr; keys are namespaced with prefix
func NewValkeyBackend(addr, prefix string) (*ValkeyBackend, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{addr},
	})
	if err != nil {
		return nil, fmt.Errorf("valkey connect: %w", err)
	}
	return &ValkeyBackend{client: client, prefix: prefix, timeout: 2 * time.Second}, nil
}

func (v *ValkeyBackend) Get(key string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), v.timeout)
	defer cancel()

	value, err := v.client.Do(ctx, v.client.B().Get().Key(v.prefix+key).Build()).ToString()
	if valkey.IsValkeyNil(err) {
		return "", ErrNotSet
	}
	if err != nil {
		return "", fmt.Errorf("valkey get %s: %w", key, err)
	}
	return value, nil
}

func (v *ValkeyBackend) Set(key, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), v.timeout)
	defer cancel()

	if err := v.client.Do(ctx, v.client.B().Set().Key(v.prefix+key).Value(value).Build()).Error(); err != nil {
		return fmt.Errorf("valkey set %s: %w", key, err)
	}
	return nil
}

// Close releases the client
func (v *ValkeyBackend) Close() {
	v.client.Close()
}
