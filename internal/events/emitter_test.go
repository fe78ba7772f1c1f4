package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetCustomEmitter(t *testing.T) {
	t.Cleanup(func() { SetCustomEmitter(nil) })

	var got []string
	SetCustomEmitter(func(_ context.Context, name string, evt SettingsEvent) {
		got = append(got, name+":"+evt.Metadata["provider"])
	})

	Emit(context.Background(), SettingsSaved, NewSuccess("saved").With("provider", "openai"))
	assert.Equal(t, []string{SettingsSaved + ":openai"}, got)

	SetCustomEmitter(nil)
	Emit(context.Background(), SettingsSaved, NewSuccess("saved"))
	assert.Len(t, got, 1)
}

func TestWith_DoesNotShareMetadata(t *testing.T) {
	base := NewInfo("x").With("a", "1")
	derived := base.With("b", "2")

	assert.Equal(t, map[string]string{"a": "1"}, base.Metadata)
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, derived.Metadata)
	assert.NotEmpty(t, derived.ID)
}
