package vault

import (
	"strings"

	"github.com/hashicorp/vault/api"

	"github.com/sanLimbu/task-tracker/internal"
)

// Provider reads secrets stored in a KV version 2 engine.
type Provider struct {
	path   string
	client *api.Logical
}

// New instantiates the Vault client.
func New(token, addr, path string) (*Provider, error) {
	config := api.DefaultConfig()
	config.Address = addr

	client, err := api.NewClient(config)
	if err != nil {
		return nil, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "api.NewClient")
	}

	client.SetToken(token)

	return &Provider{
		path:   path,
		client: client.Logical(),
	}, nil
}

// Get retrieves the value from vault, v uses the format "<path>:<key>", for example "/database:password".
func (p *Provider) Get(v string) (string, error) {
	secretPath, key, ok := strings.Cut(v, ":")
	if !ok || key == "" {
		return "", internal.NewErrorf(internal.ErrorCodeInvalidArgument, "missing key value: %s", v)
	}

	res, err := p.client.Read(p.path + secretPath)
	if err != nil {
		return "", internal.WrapErrorf(err, internal.ErrorCodeUnknown, "client.Read")
	}

	if res == nil {
		return "", internal.NewErrorf(internal.ErrorCodeNotFound, "secret not found: %s", secretPath)
	}

	data, ok := res.Data["data"].(map[string]interface{})
	if !ok {
		return "", internal.NewErrorf(internal.ErrorCodeUnknown, "invalid secret data: %s", secretPath)
	}

	val, ok := data[key].(string)
	if !ok {
		return "", internal.NewErrorf(internal.ErrorCodeNotFound, "key not found: %s", key)
	}

	return val, nil
}
