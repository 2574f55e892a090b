package app

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func NewCmdValidate(out io.Writer, fs afero.Fs, config *Config) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate enum schema documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			return doValidate(cmd, out, fs, config, file)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Schema document (path, s3:// or http(s):// URL)")

	return cmd
}

func doValidate(cmd *cobra.Command, out io.Writer, fs afero.Fs, config *Config, file string) error {
	logger := logrus.WithField("schema", file)
	f, err := loadSchema(cmd.Context(), logger, fs, config, file)
	if err != nil {
		return err
	}
	ds, err := f.Descriptors()
	if err != nil {
		return err
	}
	for _, d := range ds {
		fmt.Fprintf(out, "%s (%s): %d values\n", d.FullName(), d.Syntax(), d.Len())
	}
	_, err = fmt.Fprintln(out, "The schema is valid!")
	return err
}
