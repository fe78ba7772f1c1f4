package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"chatbox/internal/models"
	"chatbox/internal/reconciler"
	"chatbox/internal/services"
)

func newShowCmd(st *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the saved settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := st.rt.Services.Settings.Get()
			if err != nil {
				return err
			}
			printSettings(st.out, s)
			return nil
		},
	}
}

func printSettings(p printer, s models.Settings) {
	p.field("aiProvider", s.AIProvider)
	p.field("model", s.Model)
	p.field("apiUrl", s.APIURL)
	p.field("openaiKey", maskKey(s.OpenAIKey))
	p.field("temperature", s.Temperature)
	p.field("maxContextSize", s.MaxContextSize)
	p.field("maxTokens", s.MaxTokens)
	p.field("language", s.Language)
	p.field("theme", s.Theme)
	p.field("fontSize", s.FontSize)
	p.field("showWordCount", s.ShowWordCount)
	p.field("showTokenCount", s.ShowTokenCount)
	p.field("showModelName", s.ShowModelName)
}

func newProvidersCmd(st *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List providers and their models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			current, err := st.rt.Services.Settings.Get()
			if err != nil {
				return err
			}
			groups, err := st.rt.Services.Catalog.ListModelGroups()
			if err != nil {
				return err
			}
			for _, g := range groups {
				key := ""
				if g.NeedAPI {
					key = dimText(" (api key required)")
				}
				st.out.line("%s %s%s", keyPrefix(g.ProviderID), g.URL, key)
				for _, m := range g.Models {
					marker := " "
					if g.ProviderID == current.AIProvider && m.ID == current.Model {
						marker = successPrefix("*")
					}
					st.out.line("  %s %-28s context %s [%d-%d]  tokens %s [%d-%d]",
						marker, m.ID,
						m.ContextDefault, m.ContextMin, m.ContextMax,
						m.GenerateDefault, m.GenerateMin, m.GenerateMax)
				}
			}
			return nil
		},
	}
}

func newUseCmd(st *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "use <provider> [model]",
		Short: "Switch provider and optionally model, resetting model parameters",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return st.edit(func(d services.SettingsDialogService) error {
				if _, err := d.SelectProvider(args[0]); err != nil {
					return err
				}
				if len(args) == 2 {
					if _, err := d.SelectModel(args[1]); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newResetModelCmd(st *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-model",
		Short: "Restore the current provider's default model and parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return st.edit(func(d services.SettingsDialogService) error {
				_, err := d.ResetModelDefaults()
				return err
			})
		},
	}
}

func newSetCmd(st *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "set <field> <value>",
		Short: "Change one settings field",
		Long: "Change one settings field. Fields: temperature, maxContextSize, maxTokens, apiUrl " +
			"(\"default\" restores the provider URL), openaiKey (\"-\" clears it), language, theme, " +
			"fontSize, showWordCount, showTokenCount, showModelName.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return st.edit(func(d services.SettingsDialogService) error {
				return setField(d, args[0], args[1])
			})
		},
	}
}

func setField(d services.SettingsDialogService, field, value string) error {
	var err error
	switch field {
	case "temperature":
		v, perr := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if perr != nil {
			return fmt.Errorf("temperature: %w", perr)
		}
		_, err = d.SetTemperature([]float64{v}, 0)
	case "maxContextSize", "maxTokens":
		if _, ok := reconciler.ParseLengthInput(value); !ok {
			return fmt.Errorf("%s: expected a non-negative integer or %q", field, models.UnboundedSentinel)
		}
		if field == "maxContextSize" {
			_, err = d.EditContextSize(value)
		} else {
			_, err = d.EditMaxTokens(value)
		}
	case "apiUrl":
		if value == "default" {
			_, err = d.ResetAPIURL()
		} else {
			_, err = d.SetAPIURL(value)
		}
	case "openaiKey":
		if value == "-" {
			_, err = d.ClearAPIKey()
		} else {
			_, err = d.SetAPIKey(value)
		}
	case "language":
		_, err = d.SetLanguage(value)
	case "theme":
		_, err = d.SetTheme(models.ThemeMode(value))
	case "fontSize":
		n, perr := strconv.Atoi(strings.TrimSpace(value))
		if perr != nil {
			return fmt.Errorf("fontSize: %w", perr)
		}
		_, err = d.SetFontSize(n)
	case string(reconciler.ToggleWordCount), string(reconciler.ToggleTokenCount), string(reconciler.ToggleModelName):
		on, perr := strconv.ParseBool(value)
		if perr != nil {
			return fmt.Errorf("%s: %w", field, perr)
		}
		_, err = d.SetToggle(field, on)
	default:
		return fmt.Errorf("unknown field %q", field)
	}
	return err
}

// edit runs fn inside a dialog session and saves the result.
func (st *cliState) edit(fn func(services.SettingsDialogService) error) error {
	d := st.rt.Services.Dialog
	if _, err := d.Open(); err != nil {
		return err
	}
	if err := fn(d); err != nil {
		_ = d.Cancel()
		return err
	}
	saved, err := d.Save()
	if err != nil {
		_ = d.Cancel()
		return err
	}
	st.out.success("settings saved")
	printSettings(st.out, saved)
	return nil
}

func newFlushCmd(st *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "flush",
		Short: "Write the settings store to its backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := st.rt.Store.Flush(cmd.Context()); err != nil {
				return err
			}
			st.out.success(fmt.Sprintf("flushed %d keys", len(st.rt.Store.Keys())))
			return nil
		},
	}
}

func newMigrateCmd(st *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Import the legacy settings document if it has not been imported yet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			already := st.rt.Store.Migrated()
			st.rt.Store.Read(cmd.Context(), models.SettingsKey)
			switch {
			case already:
				st.out.success("legacy settings were already imported")
			case st.rt.Store.Migrated():
				st.out.success("legacy settings imported")
			default:
				st.out.warn("no readable legacy settings found")
			}
			return nil
		},
	}
}

func newPingCmd(st *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Send a short prompt with the saved settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := st.rt.ChatClient(cmd.Context())
			if err != nil {
				return err
			}
			reply, err := client.Ping(cmd.Context())
			if err != nil {
				return err
			}
			st.out.success(fmt.Sprintf("%s/%s replied: %s", client.Provider, client.Model, reply))
			return nil
		},
	}
}
