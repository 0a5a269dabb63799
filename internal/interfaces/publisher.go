package interfaces

import "context"

// PublishMode controls whether posts reach the external network.
type PublishMode string

const (
	// PublishModeDryRun logs the post and returns a synthetic id.
	PublishModeDryRun PublishMode = "dryrun"
	// PublishModeLive sends the post to the social API.
	PublishModeLive PublishMode = "live"
)

// Publisher sends a message to the social platform and returns its external
// id. Failures are typed (auth, rate limit, network) and are not retried
// within a cycle.
type Publisher interface {
	Publish(ctx context.Context, text string) (string, error)
	Mode() PublishMode
}
