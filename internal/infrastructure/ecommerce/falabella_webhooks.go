package ecommerce

import (
	"context"
	"net/http"

	"github.com/astroselling/falabella-sdk/internal/domain/integration"
)

// FalabellaWebhookManager manages webhook registrations through the client
// that created it
type FalabellaWebhookManager struct {
	client *FalabellaClient
}

// ListWebhooks lists registered webhooks, optionally restricted to ids
func (m *FalabellaWebhookManager) ListWebhooks(ctx context.Context, ids ...string) ([]integration.Webhook, error) {
	params := map[string]string{}
	if len(ids) > 0 {
		list, err := jsonList(ids)
		if err != nil {
			return nil, err
		}
		params["WebhookIdList"] = list
	}

	var resp FalabellaWebhooksResponse
	if err := m.client.call(ctx, http.MethodGet, actionGetWebhooks, params, nil, &resp); err != nil {
		return nil, err
	}

	webhooks := make([]integration.Webhook, 0, len(resp.Webhooks))
	for _, w := range resp.Webhooks {
		webhooks = append(webhooks, integration.Webhook{
			WebhookID:   w.WebhookID,
			CallbackURL: w.CallbackURL,
			Source:      w.Source,
			Events:      w.Events,
		})
	}
	return webhooks, nil
}

// CreateWebhook registers a callback for the given event aliases
func (m *FalabellaWebhookManager) CreateWebhook(ctx context.Context, callbackURL string, events []string) (string, error) {
	body := falabellaWebhookRequest{
		CallbackURL: callbackURL,
		Events:      events,
	}

	var resp FalabellaCreateWebhookResponse
	if err := m.client.call(ctx, http.MethodPost, actionCreateWebhook, nil, body, &resp); err != nil {
		return "", err
	}
	return resp.WebhookID, nil
}

// DeleteWebhook removes a webhook registration
func (m *FalabellaWebhookManager) DeleteWebhook(ctx context.Context, webhookID string) error {
	if webhookID == "" {
		return integration.ErrWebhookMissingID
	}

	var resp FalabellaSuccessResponse
	return m.client.call(ctx, http.MethodPost, actionDeleteWebhook, nil, falabellaWebhookDeleteRequest{WebhookID: webhookID}, &resp)
}

// ListEntities lists the entities and event aliases available for webhooks
func (m *FalabellaWebhookManager) ListEntities(ctx context.Context) ([]integration.WebhookEntity, error) {
	var resp FalabellaWebhookEntitiesResponse
	if err := m.client.call(ctx, http.MethodGet, actionGetWebhookEntities, nil, nil, &resp); err != nil {
		return nil, err
	}

	entities := make([]integration.WebhookEntity, 0, len(resp.Entities))
	for _, e := range resp.Entities {
		entity := integration.WebhookEntity{Name: e.Name}
		for _, ev := range e.Events {
			entity.Events = append(entity.Events, integration.WebhookEvent{
				Name:  ev.Name,
				Alias: ev.Alias,
			})
		}
		entities = append(entities, entity)
	}
	return entities, nil
}

// Ensure FalabellaWebhookManager implements WebhookManager interface
var _ integration.WebhookManager = (*FalabellaWebhookManager)(nil)
