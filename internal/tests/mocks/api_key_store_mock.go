package mocks

import "github.com/zalando/go-keyring"

type APIKeyStoreMock struct {
	StoreApiKeyFunc  func(provider string, apiKey []byte) error
	GetApiKeyFunc    func(provider string) (string, error)
	DeleteApiKeyFunc func(provider string) error

	Keys map[string]string
}

func (m *APIKeyStoreMock) StoreApiKey(provider string, apiKey []byte) error {
	if m.StoreApiKeyFunc != nil {
		return m.StoreApiKeyFunc(provider, apiKey)
	}
	if m.Keys == nil {
		m.Keys = map[string]string{}
	}
	m.Keys[provider] = string(apiKey)
	return nil
}

func (m *APIKeyStoreMock) GetApiKey(provider string) (string, error) {
	if m.GetApiKeyFunc != nil {
		return m.GetApiKeyFunc(provider)
	}
	key, ok := m.Keys[provider]
	if !ok {
		return "", keyring.ErrNotFound
	}
	return key, nil
}

func (m *APIKeyStoreMock) DeleteApiKey(provider string) error {
	if m.DeleteApiKeyFunc != nil {
		return m.DeleteApiKeyFunc(provider)
	}
	delete(m.Keys, provider)
	return nil
}
