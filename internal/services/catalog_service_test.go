package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"chatbox/internal/catalog"
	"chatbox/internal/logger"
	"chatbox/internal/services"
	"chatbox/internal/tests/mocks"
)

func TestCatalogService(t *testing.T) {
	keyring.MockInit()
	store := &mocks.StoreMock{}
	keys := services.NewKeyringService("chatbox-test", store, logger.Discard())
	require.NoError(t, keys.StoreApiKey("gemini", []byte("g-1")))

	svc := services.NewCatalogService(catalog.Default(), keys)

	assert.Equal(t, []string{"openai", "anthropic", "gemini", "ollama"}, svc.ListProviders())

	groups, err := svc.ListModelGroups()
	require.NoError(t, err)
	require.Len(t, groups, 4)
	assert.Equal(t, "gpt-4o-mini", groups[0].Models[0].ID)
	assert.Equal(t, "inf", groups[1].Models[0].ContextDefault)
	assert.True(t, groups[2].HasKey)
	assert.False(t, groups[0].HasKey)
	assert.False(t, groups[3].NeedAPI)

	m, err := svc.GetModel("openai", "gpt-3.5-turbo")
	require.NoError(t, err)
	assert.Equal(t, 16384, m.ContextMax)
	assert.Equal(t, "1024", m.GenerateDefault)

	_, err = svc.GetModel("openai", "claude-3-5-haiku-latest")
	assert.Error(t, err)
	_, err = svc.GetModel("", "x")
	assert.Error(t, err)

	b, err := svc.Bounds("anthropic", "claude-3-5-haiku-latest")
	require.NoError(t, err)
	assert.Equal(t, 256, b.Context.Min)
	assert.Equal(t, 8192, b.Generate.Max)
}
