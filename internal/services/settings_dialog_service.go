package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"chatbox/internal/catalog"
	"chatbox/internal/events"
	"chatbox/internal/models"
	"chatbox/internal/reconciler"
)

var ErrDialogNotOpen = errors.New("settings dialog is not open")

// Clipboard reads plain text from the system clipboard.
type Clipboard interface {
	ClipboardGetText() (string, error)
}

// ThemePreviewer applies a theme to the window without saving it.
type ThemePreviewer interface {
	PreviewTheme(theme models.ThemeMode)
}

// SettingsDialogService holds the edit session of the settings dialog.
// Every edit goes through the reconciler; nothing is persisted until Save.
type SettingsDialogService interface {
	Startup(ctx context.Context)
	Open() (reconciler.State, error)
	Current() (reconciler.State, error)

	SelectProvider(provider string) (reconciler.State, error)
	SelectModel(model string) (reconciler.State, error)
	SetTemperature(values []float64, activeThumb int) (reconciler.State, error)
	EditContextSize(raw string) (reconciler.State, error)
	EditMaxTokens(raw string) (reconciler.State, error)
	SlideContextSize(position int) (reconciler.State, error)
	SlideMaxTokens(position int) (reconciler.State, error)
	ResetModelDefaults() (reconciler.State, error)

	SetAPIKey(key string) (reconciler.State, error)
	ClearAPIKey() (reconciler.State, error)
	PasteAPIKey() (reconciler.State, error)
	SetAPIURL(url string) (reconciler.State, error)
	ResetAPIURL() (reconciler.State, error)

	SetLanguage(language string) (reconciler.State, error)
	SetTheme(theme models.ThemeMode) (reconciler.State, error)
	SetFontSize(size int) (reconciler.State, error)
	SetToggle(name string, on bool) (reconciler.State, error)

	Cancel() error
	Save() (models.Settings, error)
}

type settingsDialogService struct {
	settings  SettingsService
	catalog   *catalog.Catalog
	clipboard Clipboard
	theme     ThemePreviewer
	log       *slog.Logger
	context   context.Context

	mu      sync.Mutex
	saved   models.Settings
	session *reconciler.State
}

func NewSettingsDialogService(settings SettingsService, cat *catalog.Catalog, clipboard Clipboard, theme ThemePreviewer, log *slog.Logger) SettingsDialogService {
	return &settingsDialogService{
		settings:  settings,
		catalog:   cat,
		clipboard: clipboard,
		theme:     theme,
		log:       log.With(slog.String("service", "settings_dialog")),
		context:   context.Background(),
	}
}

func (d *settingsDialogService) Startup(ctx context.Context) {
	d.context = ctx
}

// Open starts an edit session on the saved record. Saved values are kept
// as they are; only the input ranges are derived from the catalog.
func (d *settingsDialogService) Open() (reconciler.State, error) {
	saved, err := d.settings.Get()
	if err != nil {
		return reconciler.State{}, fmt.Errorf("open settings: %w", err)
	}
	st := reconciler.Open(d.catalog, saved)

	d.mu.Lock()
	d.saved = saved
	d.session = &st
	d.mu.Unlock()
	return st, nil
}

func (d *settingsDialogService) Current() (reconciler.State, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.session == nil {
		return reconciler.State{}, ErrDialogNotOpen
	}
	return *d.session, nil
}

func (d *settingsDialogService) SelectProvider(provider string) (reconciler.State, error) {
	if _, ok := d.catalog.Provider(provider); !ok {
		return d.rejected(fmt.Errorf("unknown provider %q", provider))
	}
	return d.apply(reconciler.ProviderChanged{Provider: provider})
}

// SelectModel checks the model against the session's provider under the
// session lock, so a concurrent provider change cannot slip in between.
func (d *settingsDialogService) SelectModel(model string) (reconciler.State, error) {
	return d.applyChecked(reconciler.ModelChanged{Model: model}, func(cur reconciler.State) error {
		provider := cur.Settings.AIProvider
		if _, ok := d.catalog.MustProvider(provider).Model(model); !ok {
			return fmt.Errorf("provider %s has no model %q", provider, model)
		}
		return nil
	})
}

func (d *settingsDialogService) SetTemperature(values []float64, activeThumb int) (reconciler.State, error) {
	return d.apply(reconciler.TemperatureEdited{Values: values, ActiveThumb: activeThumb})
}

func (d *settingsDialogService) EditContextSize(raw string) (reconciler.State, error) {
	return d.apply(reconciler.ContextSizeEdited{Raw: raw})
}

func (d *settingsDialogService) EditMaxTokens(raw string) (reconciler.State, error) {
	return d.apply(reconciler.MaxTokensEdited{Raw: raw})
}

func (d *settingsDialogService) SlideContextSize(position int) (reconciler.State, error) {
	return d.apply(reconciler.ContextSizeSlid{Position: position})
}

func (d *settingsDialogService) SlideMaxTokens(position int) (reconciler.State, error) {
	return d.apply(reconciler.MaxTokensSlid{Position: position})
}

func (d *settingsDialogService) ResetModelDefaults() (reconciler.State, error) {
	return d.apply(reconciler.ResetModelDefaults{})
}

func (d *settingsDialogService) SetAPIKey(key string) (reconciler.State, error) {
	return d.apply(reconciler.APIKeyEdited{Value: key})
}

func (d *settingsDialogService) ClearAPIKey() (reconciler.State, error) {
	return d.apply(reconciler.APIKeyCleared{})
}

// PasteAPIKey replaces the key with the clipboard text. A clipboard
// failure leaves the key untouched.
func (d *settingsDialogService) PasteAPIKey() (reconciler.State, error) {
	if d.clipboard == nil {
		return d.Current()
	}
	text, err := d.clipboard.ClipboardGetText()
	if err != nil {
		d.log.Warn("clipboard read failed", slog.Any("error", err))
		return d.Current()
	}
	return d.apply(reconciler.APIKeyEdited{Value: text})
}

func (d *settingsDialogService) SetAPIURL(url string) (reconciler.State, error) {
	return d.apply(reconciler.APIURLEdited{Value: url})
}

func (d *settingsDialogService) ResetAPIURL() (reconciler.State, error) {
	return d.apply(reconciler.APIURLReset{})
}

func (d *settingsDialogService) SetLanguage(language string) (reconciler.State, error) {
	return d.apply(reconciler.LanguageChanged{Language: language})
}

// SetTheme records the theme and previews it immediately.
func (d *settingsDialogService) SetTheme(theme models.ThemeMode) (reconciler.State, error) {
	st, err := d.apply(reconciler.ThemeChanged{Theme: theme})
	if err != nil {
		return st, err
	}
	d.preview(theme)
	return st, nil
}

func (d *settingsDialogService) SetFontSize(size int) (reconciler.State, error) {
	return d.apply(reconciler.FontSizeChanged{Size: size})
}

func (d *settingsDialogService) SetToggle(name string, on bool) (reconciler.State, error) {
	toggle := reconciler.Toggle(name)
	switch toggle {
	case reconciler.ToggleWordCount, reconciler.ToggleTokenCount, reconciler.ToggleModelName:
	default:
		return d.rejected(fmt.Errorf("unknown toggle %q", name))
	}
	return d.apply(reconciler.ToggleChanged{Toggle: toggle, On: on})
}

// Cancel discards the session and restores the saved theme.
func (d *settingsDialogService) Cancel() error {
	d.mu.Lock()
	if d.session == nil {
		d.mu.Unlock()
		return ErrDialogNotOpen
	}
	saved := d.saved
	d.session = nil
	d.mu.Unlock()

	d.preview(saved.Theme)
	events.Emit(d.context, events.SettingsCancelled, events.NewInfo("settings edit cancelled"))
	return nil
}

// Save commits the session. On a validation error the session stays open.
func (d *settingsDialogService) Save() (models.Settings, error) {
	cur, err := d.Current()
	if err != nil {
		return models.Settings{}, err
	}
	saved, err := d.settings.Save(cur.Settings)
	if err != nil {
		return cur.Settings, err
	}

	d.mu.Lock()
	d.saved = saved
	d.session = nil
	d.mu.Unlock()
	return saved, nil
}

func (d *settingsDialogService) apply(ev reconciler.Event) (reconciler.State, error) {
	return d.applyChecked(ev, nil)
}

// applyChecked runs check on the current session before applying ev. A
// check error leaves the session unchanged.
func (d *settingsDialogService) applyChecked(ev reconciler.Event, check func(reconciler.State) error) (reconciler.State, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.session == nil {
		return reconciler.State{}, ErrDialogNotOpen
	}
	if check != nil {
		if err := check(*d.session); err != nil {
			return *d.session, err
		}
	}
	next := reconciler.Apply(*d.session, d.catalog, ev)
	d.session = &next
	return next, nil
}

func (d *settingsDialogService) rejected(err error) (reconciler.State, error) {
	cur, cerr := d.Current()
	if cerr != nil {
		return cur, cerr
	}
	return cur, err
}

func (d *settingsDialogService) preview(theme models.ThemeMode) {
	if d.theme != nil {
		d.theme.PreviewTheme(theme)
	}
	events.Emit(d.context, events.ThemePreview, events.NewInfo(string(theme)).With("theme", string(theme)))
}
