package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nakario/linedemux"
	"github.com/nakario/linedemux/internal/config"
)

// envFile is read from the working directory before the environment is consulted
const envFile = ".env"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "linedemux [filename]",
		Short: "Split alternating lines of a file into <file>_avg.txt and <file>_max.txt",
		Long: `linedemux copies lines 0, 2, 4, ... of a text file to <file>_avg.txt and
lines 1, 3, 5, ... to <file>_max.txt. Without an argument it prompts for the
file name on standard input.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runSplit,
	}
	config.RegisterFlags(cmd.PersistentFlags())
	cmd.AddCommand(newMergeCmd())
	return cmd
}

func runSplit(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}

	var filename string
	if len(args) == 1 {
		filename = args[0]
	} else {
		filename, err = promptFilename(cmd.InOrStdin(), cmd.OutOrStdout())
		if err != nil && !cfg.Compat {
			log.WithError(err).Error("Error reading filename")
			return err
		}
	}

	opts := cfg.Options()
	opts.Logger = log
	res, err := linedemux.Split(filename, opts)
	if err != nil {
		log.WithError(err).Error("Error splitting file")
		return err
	}
	log.WithFields(logrus.Fields{
		"avg_file": res.AvgPath,
		"max_file": res.MaxPath,
	}).Info("done")
	return nil
}

// promptFilename prints the prompt to out and reads one line from in.
// End of input before a newline yields whatever was typed.
func promptFilename(in io.Reader, out io.Writer) (string, error) {
	if _, err := fmt.Fprint(out, "Filename: "); err != nil {
		return "", err
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("Error reading filename: %w", err)
	}
	return strings.TrimSuffix(line, "\n"), nil
}

func setup(cmd *cobra.Command) (config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(cmd.Flags(), envFile)
	log := newLogger(cmd.ErrOrStderr(), cfg.Verbose)
	if err != nil {
		if cfg.Compat {
			log.WithError(err).Debug("ignoring configuration error in compat mode")
			return cfg, log, nil
		}
		log.WithError(err).Error("Error loading configuration")
		return cfg, nil, fmt.Errorf("Error loading configuration: %w", err)
	}
	return cfg, log, nil
}

func newLogger(w io.Writer, verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	log.SetLevel(logrus.WarnLevel)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}
