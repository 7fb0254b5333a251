package integration

import "context"

// Webhook is a callback registration on the platform
type Webhook struct {
	WebhookID   string
	CallbackURL string
	Source      string
	Events      []string
}

// WebhookEvent is one event a webhook can subscribe to
type WebhookEvent struct {
	Name  string
	Alias string
}

// WebhookEntity groups the events of one platform entity (Order, Product, Feed...)
type WebhookEntity struct {
	Name   string
	Events []WebhookEvent
}

// WebhookManager manages webhook registrations for the configured seller.
// Delivery of the callbacks is entirely up to the platform.
type WebhookManager interface {
	// ListWebhooks lists registered webhooks, optionally restricted to ids
	ListWebhooks(ctx context.Context, ids ...string) ([]Webhook, error)

	// CreateWebhook registers a callback for the given event aliases and returns its id
	CreateWebhook(ctx context.Context, callbackURL string, events []string) (string, error)

	// DeleteWebhook removes a webhook registration
	DeleteWebhook(ctx context.Context, webhookID string) error

	// ListEntities lists the entities and event aliases available for webhooks
	ListEntities(ctx context.Context) ([]WebhookEntity, error)
}
