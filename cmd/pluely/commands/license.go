package commands

import (
	"errors"
	"fmt"

	"github.com/pluely/gateway/internal/credential"
	"github.com/spf13/cobra"
)

var errKeyringOnly = errors.New("credentials can only be changed with the keyring backend")

func newLicenseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "license",
		Short: "Inspect and manage the stored license",
	}

	cmd.AddCommand(
		newLicenseStatusCmd(),
		newLicenseSetCmd(),
		newLicenseClearCmd(),
		newLicenseActivityCmd(),
	)

	return cmd
}

func newLicenseStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report whether a license is stored",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			if a.gateway.CheckLicenseStatus(cmd.Context()) {
				fmt.Fprintln(stdout(cmd), "active")
			} else {
				fmt.Fprintln(stdout(cmd), "inactive")
			}

			return nil
		},
	}
}

func keyringStore(a *app) (*credential.KeyringStore, error) {
	ks, ok := a.store.(*credential.KeyringStore)
	if !ok {
		return nil, errKeyringOnly
	}

	return ks, nil
}

func newLicenseSetCmd() *cobra.Command {
	var (
		provider string
		model    string
	)

	cmd := &cobra.Command{
		Use:   "set [license-key] [instance-id]",
		Short: "Store a license in the keyring",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			ks, err := keyringStore(a)
			if err != nil {
				return err
			}

			creds := &credential.Credentials{
				LicenseKey: args[0],
				InstanceId: args[1],
			}

			if len(provider) != 0 || len(model) != 0 {
				creds.SelectedModel = &credential.Model{
					Provider: provider,
					Model:    model,
				}
			}

			return ks.SaveCredentials(creds)
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "provider of the selected model")
	cmd.Flags().StringVar(&model, "model", "", "selected model")

	return cmd
}

func newLicenseClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the stored license from the keyring",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			ks, err := keyringStore(a)
			if err != nil {
				return err
			}

			return ks.DeleteCredentials()
		},
	}
}

func newLicenseActivityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "activity",
		Short: "Print the usage recorded for this license",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := withTimeout(cmd, a.cfg.ConfigFetchTimeout)
			defer cancel()

			activity, err := a.gateway.GetActivity(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintln(stdout(cmd), string(activity))
			return nil
		},
	}
}
