package stripe

import (
	"context"
	"testing"

	"github.com/arto/mercator-backend/pkg/config"
)

func TestNewClientValidation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		cfg     config.StripeConfig
		wantErr bool
	}{
		{
			name:    "valid test key",
			cfg:     config.StripeConfig{APIKey: "sk_test_123", WebhookSecret: "whsec_123", Env: "test"},
			wantErr: false,
		},
		{
			name:    "missing api key",
			cfg:     config.StripeConfig{WebhookSecret: "whsec_123"},
			wantErr: true,
		},
		{
			name:    "missing webhook secret",
			cfg:     config.StripeConfig{APIKey: "sk_test_123"},
			wantErr: true,
		},
		{
			name:    "live env rejects test key",
			cfg:     config.StripeConfig{APIKey: "sk_test_123", WebhookSecret: "whsec_123", Env: "live"},
			wantErr: true,
		},
		{
			name:    "unknown environment",
			cfg:     config.StripeConfig{APIKey: "sk_test_123", WebhookSecret: "whsec_123", Env: "staging"},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client, err := NewClient(ctx, tc.cfg, nil)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if client.SigningSecret() != "whsec_123" {
				t.Fatalf("unexpected signing secret %q", client.SigningSecret())
			}
			if client.Environment() != "test" {
				t.Fatalf("unexpected environment %q", client.Environment())
			}
		})
	}
}
