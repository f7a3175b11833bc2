package pubsub

import (
	"context"
	"errors"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

// NewPubSub connects to Google Cloud Pub/Sub. An empty project id disables the sink.
func NewPubSub(ctx context.Context, projectID string, opts ...option.ClientOption) (*pubsub.Client, error) {
	if projectID == "" {
		return nil, errors.New("pubsub project id is not configured")
	}
	return pubsub.NewClient(ctx, projectID, opts...)
}
