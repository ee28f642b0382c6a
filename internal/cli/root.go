// Package cli provides the command-line interface for chromamatch.
package cli

import (
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/chromamatch/internal/config"
	"github.com/jmylchreest/chromamatch/internal/version"
)

// globalOptions is the state shared by every command of one root.
type globalOptions struct {
	verbose    bool
	quiet      bool
	configPath string

	viper  *viper.Viper
	config config.Config
	logger hclog.Logger
}

// flagKeys maps command flags to the configuration keys they override.
var flagKeys = map[string]string{
	"clusters":        config.KeyClusters,
	"seed":            config.KeySeed,
	"undertone":       config.KeyUndertoneMargin,
	"label-skin":      config.KeyLabelSkin,
	"label-left-eye":  config.KeyLabelLeftEye,
	"label-right-eye": config.KeyLabelRightEye,
	"label-hair":      config.KeyLabelHair,
}

// NewRootCmd creates the chromamatch command tree.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "chromamatch",
		Short: "Classify skin tone, undertone, eye and hair colour from segmented photos",
		Long: `chromamatch classifies the colours of a photographed face.

Given an image and the masks of its skin, eyes and hair (as produced by a face
segmentation model), it finds the dominant colour of each region in CIE Lab,
matches it to the nearest reference colour by CIEDE2000 and reports the Monk
skin tone, undertone, eye colour and hair colour.`,
		Version:      version.Short(),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default: "+config.DefaultConfigPath+")")

	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newAnalyzeCmd(opts))
	rootCmd.AddCommand(newClassifyCmd(opts))
	rootCmd.AddCommand(newPalettesCmd(opts))

	return rootCmd
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// setup builds the logger and loads configuration, letting the running
// command's flags override file and environment values.
func (o *globalOptions) setup(cmd *cobra.Command) error {
	o.logger = newLogger(cmd.ErrOrStderr(), o.verbose, o.quiet)

	o.viper = viper.New()
	if err := config.BindFlags(o.viper, cmd.Flags(), flagKeys); err != nil {
		return err
	}

	cfg, err := config.Load(o.viper, o.configPath)
	if err != nil {
		return err
	}
	o.config = cfg

	if cfg.File != "" {
		o.logger.Debug("loaded config file", "path", cfg.File)
	}
	return nil
}

func newLogger(w io.Writer, verbose, quiet bool) hclog.Logger {
	level := hclog.Info
	switch {
	case quiet:
		level = hclog.Off
	case verbose:
		level = hclog.Debug
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:   "chromamatch",
		Output: w,
		Level:  level,
	})
}
