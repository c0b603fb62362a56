package main

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/nao1215/spiderling/internal/config"
	"github.com/spf13/cobra"
)

//go:embed templates/spiderling.yaml
var configTemplate []byte

// errConfigExists is returned by init when the target exists and -f is not set.
var errConfigExists = errors.New("configuration file already exists")

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented spiderling configuration file",
		Long: `Init writes a configuration template to .spiderling in the current
directory. Every option is present but commented out, so the file loads as
the built-in defaults until edited.

Examples:
  spiderling init
  spiderling init -o ~/.config/spiderling/config.yaml
  spiderling init -f
  spiderling init --stdout > my.yaml`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile, "Path of the file to write")
	cmd.Flags().BoolP("force", "f", false, "Replace an existing file")
	cmd.Flags().Bool("stdout", false, "Print the template instead of writing a file")

	return cmd
}

func runInitCmd(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()

	toStdout, err := flags.GetBool("stdout")
	if err != nil {
		return err
	}
	if toStdout {
		_, err := cmd.OutOrStdout().Write(configTemplate)
		return err
	}

	path, err := flags.GetString("output")
	if err != nil {
		return err
	}
	force, err := flags.GetBool("force")
	if err != nil {
		return err
	}

	if err := writeConfigTemplate(path, force); err != nil {
		if errors.Is(err, errConfigExists) {
			return fmt.Errorf("%w: %s (use -f to overwrite)", err, path)
		}
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s. Uncomment the keys you want to change.\n", path)
	return nil
}

// writeConfigTemplate creates path with owner-only permissions, since the
// file may carry cookies and auth headers. Without force an existing file
// is left untouched.
func writeConfigTemplate(path string, force bool) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	flag := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if force {
		flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	f, err := os.OpenFile(path, flag, 0600)
	if errors.Is(err, fs.ErrExist) {
		return errConfigExists
	}
	if err != nil {
		return fmt.Errorf("failed to create configuration file: %w", err)
	}

	_, err = f.Write(configTemplate)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}
	return nil
}
