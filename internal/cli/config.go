package cli

import (
	"fmt"
	"path/filepath"

	"github.com/arthur-debert/ocp/pkg/config"
	"github.com/arthur-debert/ocp/pkg/errors"
	"github.com/arthur-debert/ocp/pkg/filesystem"
	"github.com/spf13/cobra"
)

func newConfigCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: MsgConfigShowShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cfg, err := loadSettings(flags)
			if err != nil {
				return err
			}
			data, err := config.ToTOML(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: MsgConfigInitShort,
		Long:  "Init writes the commented default configuration to the user config file (ocp.toml in the ocp config directory).",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _, err := loadSettings(flags)
			if err != nil {
				return err
			}
			fsys := filesystem.NewOS()
			path := p.UserConfigPath()
			if _, err := fsys.Stat(path); err == nil && !force {
				return errors.Newf(errors.ErrInvalidInput, "%s already exists (use --force to overwrite)", path).
					WithDetail("path", path)
			}
			if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return errors.Wrapf(err, errors.ErrFileAccess, "failed to create %s", filepath.Dir(path))
			}
			if err := fsys.WriteFile(path, []byte(config.DefaultsContent()), 0644); err != nil {
				return errors.Wrapf(err, errors.ErrFileAccess, "failed to write %s", path)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), MsgConfigWritten+"\n", path)
			return err
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, MsgFlagForce)
	cmd.AddCommand(initCmd)

	return cmd
}
