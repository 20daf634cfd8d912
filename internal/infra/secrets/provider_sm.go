// internal/infra/secrets/provider_sm.go
package secrets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

var (
	ErrSecretNotConfigured = errors.New("secrets: not configured")
	ErrSecretEmptyID       = errors.New("secrets: secretId is empty")
)

// ProviderSM resolves secret values from Google Secret Manager. Used for the
// mall API key when MALL_API_KEY_SECRET is set instead of a plain env value.
type ProviderSM struct {
	Client    *secretmanager.Client
	ProjectID string
}

func NewProviderSM(ctx context.Context, projectID string) (*ProviderSM, error) {
	pid := strings.TrimSpace(projectID)
	if pid == "" {
		return nil, fmt.Errorf("%w: projectID is empty", ErrSecretNotConfigured)
	}

	c, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &ProviderSM{Client: c, ProjectID: pid}, nil
}

// Resolve returns the latest version of secretID.
func (p *ProviderSM) Resolve(ctx context.Context, secretID string) (string, error) {
	if p == nil || p.Client == nil {
		return "", ErrSecretNotConfigured
	}
	sid := strings.TrimSpace(secretID)
	if sid == "" {
		return "", ErrSecretEmptyID
	}

	name := fmt.Sprintf("projects/%s/secrets/%s/versions/latest", p.ProjectID, sid)
	resp, err := p.Client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return "", fmt.Errorf("secrets: access %s: %w", sid, err)
	}
	return strings.TrimSpace(string(resp.GetPayload().GetData())), nil
}

func (p *ProviderSM) Close() error {
	if p == nil || p.Client == nil {
		return nil
	}
	return p.Client.Close()
}
