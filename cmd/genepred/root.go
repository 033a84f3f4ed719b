package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var logger = zap.NewNop()

func newRootCmd() *cobra.Command {
	var (
		cfgFile string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "genepred",
		Short: "Convert between BED and GTF/GFF gene annotation formats",
		Long: `genepred reads gene annotations in BED, GTF, or GFF format into a
canonical multi-exon transcript model and writes them back out in any of
those formats. GTF/GFF rows are aggregated per transcript; BED records
map one to one.`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(cfgFile); err != nil {
				return err
			}
			return initLogger(verbose)
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.genepred.yaml)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log skipped rows and progress to stderr")

	cmd.AddCommand(newConvertCmd())
	cmd.AddCommand(newStatsCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

func initConfig(cfgFile string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.SetConfigName(".genepred")
			viper.SetConfigType("yaml")
		}
	}

	viper.SetEnvPrefix("GENEPRED")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func initLogger(verbose bool) error {
	if !verbose && !viper.GetBool("verbose") {
		return nil
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	logger = l
	return nil
}

// detectFormat maps a file extension to an input format name, looking past
// any compression suffix.
func detectFormat(path string) string {
	lower := strings.ToLower(path)
	for _, suffix := range []string{".gz", ".zst", ".bz2"} {
		lower = strings.TrimSuffix(lower, suffix)
	}
	switch filepath.Ext(lower) {
	case ".bed":
		return "bed"
	case ".gtf":
		return "gtf"
	case ".gff", ".gff3":
		return "gff"
	}
	return ""
}
