package mocks

import "chatbox/internal/models"

type ClipboardMock struct {
	ClipboardGetTextFunc func() (string, error)
}

func (m *ClipboardMock) ClipboardGetText() (string, error) {
	if m.ClipboardGetTextFunc != nil {
		return m.ClipboardGetTextFunc()
	}
	return "", nil
}

// ThemePreviewerMock records every previewed theme.
type ThemePreviewerMock struct {
	Previews []models.ThemeMode
}

func (m *ThemePreviewerMock) PreviewTheme(theme models.ThemeMode) {
	m.Previews = append(m.Previews, theme)
}
