package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"chatbox/internal/bootstrap"
)

type cliState struct {
	configPath string
	out        printer
	rt         *bootstrap.Runtime
}

func newRootCmd(out io.Writer) *cobra.Command {
	st := &cliState{out: printer{out: out}}

	root := &cobra.Command{
		Use:     "settingsctl",
		Short:   "Inspect and edit chatbox settings",
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := bootstrap.New(bootstrap.Options{
				ConfigPath: st.configPath,
				LogOutput:  cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}
			rt.Start(cmd.Context())
			st.rt = rt
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			st.close(cmd.Context())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.SetContext(context.Background())
	root.PersistentFlags().StringVarP(&st.configPath, "config", "c", "", "path to chatbox.toml")

	root.AddCommand(
		newShowCmd(st),
		newProvidersCmd(st),
		newUseCmd(st),
		newSetCmd(st),
		newResetModelCmd(st),
		newFlushCmd(st),
		newMigrateCmd(st),
		newPingCmd(st),
	)
	return root
}

func (st *cliState) close(ctx context.Context) {
	if st.rt != nil {
		st.rt.Stop(ctx)
		st.rt = nil
	}
}
