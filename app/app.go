package app

import (
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

const defaultLogLevel = logrus.WarnLevel

var (
	configFile     string
	verbosityLevel string
)

func Run(out, stderr io.Writer) error {
	c := RootCommand(out, stderr)
	return c.Execute()
}

func RootCommand(out, stderr io.Writer) *cobra.Command {
	return rootCommand(out, stderr, afero.NewOsFs())
}

// rootCommand builds the command tree over fs, which every command reads
// schemas from and writes generated code to.
func rootCommand(out, stderr io.Writer, fs afero.Fs) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "openenum",
		Short:         "Open enum toolchain and descriptor registry",
		SilenceErrors: true,
	}

	cmd.SetOut(out)
	cmd.SetErr(stderr)
	cmd.Root().SilenceUsage = true

	config := &Config{}
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(config); err != nil {
			return err
		}

		level := verbosityLevel
		if level == "" {
			level = config.Logging.Level
		}
		if err := setUpLogger(stderr, level); err != nil {
			return err
		}

		return nil
	}

	cmd.AddCommand(NewCmdConfig(out, config))
	cmd.AddCommand(NewCmdVersion(out))
	cmd.AddCommand(NewCmdValidate(out, fs, config))
	cmd.AddCommand(NewCmdGenerate(out, fs, config))
	cmd.AddCommand(NewCmdValues(out, fs, config))
	cmd.AddCommand(NewCmdPublish(out, logrus.WithField("cmd", "publish"), fs, config))
	cmd.AddCommand(NewCmdServer(logrus.WithField("cmd", "server"), config))

	cmd.PersistentFlags().StringVarP(&verbosityLevel, "verbosity", "v", "", "Log level (debug, info, warn, error, fatal, panic)")
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Configuration file")

	return cmd
}

func setUpLogger(out io.Writer, level string) error {
	if level == "" {
		level = defaultLogLevel.String()
	}
	logrus.SetOutput(out)
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return errors.Wrap(err, "parsing log level")
	}
	logrus.SetLevel(lvl)
	return nil
}
