package vault

import (
	"fmt"

	"github.com/hashicorp/vault/api"
)

// SecretManager reads runtime secrets from a KV v2 mount. Only used when a
// Vault address is configured; otherwise secrets come from the environment.
type SecretManager struct {
	client *api.Client
}

func NewSecretManager(address, token string) (*SecretManager, error) {
	config := api.DefaultConfig()
	config.Address = address

	client, err := api.NewClient(config)
	if err != nil {
		return nil, err
	}

	client.SetToken(token)

	return &SecretManager{client: client}, nil
}

func (sm *SecretManager) GetDatabaseURL() (string, error) {
	return sm.readField("secret/data/database", "connection_string")
}

func (sm *SecretManager) GetGeminiAPIKey() (string, error) {
	return sm.readField("secret/data/gemini", "api_key")
}

func (sm *SecretManager) GetStripeAPIKey() (string, error) {
	return sm.readField("secret/data/stripe", "api_key")
}

func (sm *SecretManager) GetSendGridAPIKey() (string, error) {
	return sm.readField("secret/data/sendgrid", "api_key")
}

func (sm *SecretManager) readField(path, field string) (string, error) {
	secret, err := sm.client.Logical().Read(path)
	if err != nil {
		return "", err
	}
	if secret == nil || secret.Data == nil {
		return "", fmt.Errorf("vault: no secret at %s", path)
	}

	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("vault: unexpected payload at %s", path)
	}
	value, ok := data[field].(string)
	if !ok {
		return "", fmt.Errorf("vault: field %s missing at %s", field, path)
	}
	return value, nil
}
