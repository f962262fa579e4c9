package valkeystore

import (
	"context"
	"fmt"
	"text-optimization-api/utils"

	"github.com/valkey-io/valkey-go"
	"github.com/valkey-io/valkey-go/valkeycompat"
	"go.uber.org/zap"
)

// Store bundles the raw client used for pub/sub with the go-redis style adapter
type Store struct {
	Client    valkeycompat.Cmdable
	RawClient valkey.Client
}

func InitValkey(logger *zap.Logger, cfg utils.ValkeyConfig) (*Store, error) {
	var vk valkey.Client
	var err error

	if cfg.UseSentinel {
		if len(cfg.SentinelAddresses) == 0 {
			return nil, fmt.Errorf("VALKEY_USE_SENTINEL is true but VALKEY_SENTINEL_ADDRESS is not set")
		}

		logger.Info("Initializing message bus with sentinel configuration")

		vk, err = valkey.NewClient(valkey.ClientOption{
			InitAddress: cfg.SentinelAddresses,
			Sentinel: valkey.SentinelOption{
				MasterSet: cfg.SentinelMasterName,
			},
		})
	} else {
		logger.Info("Initializing message bus")

		vk, err = valkey.NewClient(valkey.ClientOption{
			InitAddress: []string{fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)},
		})
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to valkey: %w", err)
	}

	logger.Info("Message bus initialized successfully")
	return &Store{
		Client:    valkeycompat.NewAdapter(vk),
		RawClient: vk,
	}, nil
}

// Close releases the underlying connections
func (s *Store) Close() {
	s.RawClient.Close()
}

// Publish sends message on channel
func (s *Store) Publish(ctx context.Context, channel string, message []byte) error {
	return s.Client.Publish(ctx, channel, string(message)).Err()
}

// Subscribe blocks delivering every message on channel to handle until ctx ends or the connection fails
func (s *Store) Subscribe(ctx context.Context, channel string, handle func(message string)) error {
	return s.RawClient.Receive(ctx, s.RawClient.B().Subscribe().Channel(channel).Build(), func(msg valkey.PubSubMessage) {
		handle(msg.Message)
	})
}
