package app

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/JiscSD/openenum/generator"
)

func NewCmdGenerate(out io.Writer, fs afero.Fs, config *Config) *cobra.Command {
	var file, outDir, pkg string
	var stripComments bool
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate Go code for the enums of a schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := generator.Options{
				GoPackage:          config.Generator.Package,
				LargeEnumThreshold: config.Generator.LargeEnumThreshold,
				StripComments:      config.Generator.StripComments,
			}
			if pkg != "" {
				opts.GoPackage = pkg
			}
			if cmd.Flags().Changed("strip-comments") {
				opts.StripComments = stripComments
			}
			dir := config.Generator.OutDir
			if outDir != "" {
				dir = outDir
			}
			return doGenerate(cmd, out, fs, config, file, dir, opts)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Schema document (path, s3:// or http(s):// URL)")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (defaults to generator.out_dir)")
	cmd.Flags().StringVar(&pkg, "package", "", "Go package name (defaults to the go_package of the schema)")
	cmd.Flags().BoolVar(&stripComments, "strip-comments", false, "Do not copy schema comments into the generated code")

	return cmd
}

func doGenerate(cmd *cobra.Command, out io.Writer, fs afero.Fs, config *Config, file, dir string, opts generator.Options) error {
	logger := logrus.WithField("schema", file)
	f, err := loadSchema(cmd.Context(), logger, fs, config, file)
	if err != nil {
		return err
	}
	files, err := generator.Generate(f, opts)
	if err != nil {
		return err
	}
	if err := generator.Write(fs, dir, files); err != nil {
		return err
	}
	for _, gf := range files {
		p := filepath.Join(dir, gf.Name)
		logger.WithField("file", p).Info("Generated")
		fmt.Fprintln(out, p)
	}
	return nil
}
