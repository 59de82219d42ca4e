package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"github.com/omlabs/zapbridge/internal/config"
	"github.com/omlabs/zapbridge/internal/domain"
)

// Delivery headers. The signature is an HMAC-SHA256 of the payload
// keyed by the webhook secret, base64 encoded.
const (
	HeaderTopic      = "X-Webhook-Topic"
	HeaderResource   = "X-Webhook-Resource-ID"
	HeaderWebhookID  = "X-Webhook-ID"
	HeaderDeliveryID = "X-Webhook-Delivery-ID"
	HeaderSignature  = "X-Webhook-Signature"
)

// Deliverer performs the outbound HTTP POST for one delivery job.
// Transport errors are retried with fibonacci backoff; an HTTP response
// of any status ends the attempt, since the receiving end has seen the
// request by then.
type Deliverer struct {
	client   *http.Client
	payloads *PayloadBuilder
}

// NewDeliverer creates a Deliverer.
func NewDeliverer(payloads *PayloadBuilder) *Deliverer {
	return &Deliverer{
		client:   &http.Client{Timeout: config.DeliveryTimeout},
		payloads: payloads,
	}
}

// Sign computes the payload signature for a webhook secret.
func Sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Deliver builds the payload, posts it to the webhook's delivery URL
// and returns the outcome. The outcome always carries the payload that
// was sent; the observer decides what the result means.
func (d *Deliverer) Deliver(ctx context.Context, wh *domain.Webhook, resourceID int64) (DeliveryOutcome, error) {
	outcome := DeliveryOutcome{
		WebhookID:  wh.ID,
		ResourceID: resourceID,
		DeliveryID: uuid.New().String(),
	}

	payload, err := d.payloads.Build(ctx, wh, resourceID)
	if err != nil {
		return outcome, fmt.Errorf("build payload for webhook %d: %w", wh.ID, err)
	}
	outcome.Payload = payload

	backoff := retry.WithMaxRetries(config.DeliveryMaxRetries, retry.NewFibonacci(500*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		resp, err := d.post(ctx, wh, &outcome)
		if err != nil {
			return retry.RetryableError(err)
		}
		outcome.Response = resp
		return nil
	})
	if err != nil {
		outcome.Err = err
	}

	return outcome, nil
}

func (d *Deliverer) post(ctx context.Context, wh *domain.Webhook, outcome *DeliveryOutcome) (*DeliveryResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, wh.DeliveryURL, bytes.NewReader(outcome.Payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderTopic, wh.Topic)
	req.Header.Set(HeaderResource, strconv.FormatInt(outcome.ResourceID, 10))
	req.Header.Set(HeaderWebhookID, strconv.FormatInt(wh.ID, 10))
	req.Header.Set(HeaderDeliveryID, outcome.DeliveryID)
	if wh.Secret != "" {
		req.Header.Set(HeaderSignature, Sign(wh.Secret, outcome.Payload))
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))

	return &DeliveryResponse{StatusCode: resp.StatusCode, Status: resp.Status}, nil
}
