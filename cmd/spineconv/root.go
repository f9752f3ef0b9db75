package main

import (
	"github.com/spf13/cobra"
)

type globalFlags struct {
	configFile string
	outputDir  string
	overwrite  bool
	keepSplit  bool
	wrapBytes  bool
	verbose    bool
	quiet      bool
}

type app struct {
	flags globalFlags
	conf  *Config
	tty   bool
}

func newRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "spineconv [flags] input.json...",
		Short: "Convert bundled Spine exports to .atlas and .skel files",
		Long: "Split bundled exports into -atlas.json/-data.json documents and convert those to\n" +
			"the .atlas text and .skel binary files read by the Spine runtime.\n" +
			"Without a subcommand the operation is chosen from each input name:\n" +
			"  *-atlas.json -> .atlas, *-data.json -> .skel, other *.json -> split.",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return a.runFiles(cmd, modeAuto, args)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configFile, "config", "", "config file (default ./spineconv.yaml if present)")
	pf.StringVarP(&a.flags.outputDir, "out", "o", "", "output directory (default: next to each input)")
	pf.BoolVarP(&a.flags.overwrite, "overwrite", "f", false, "overwrite existing output files")
	pf.BoolVar(&a.flags.keepSplit, "keep-split", false, "convert: also write the intermediate -atlas.json/-data.json")
	pf.BoolVar(&a.flags.wrapBytes, "wrap-bytes", false, "narrow skeleton values outside 0-255 instead of failing")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "debug logging")
	pf.BoolVarP(&a.flags.quiet, "quiet", "q", false, "only log errors")

	root.AddCommand(
		a.newModeCommand("split", "Split bundled exports into -atlas.json and -data.json", modeSplit),
		a.newModeCommand("atlas", "Convert -atlas.json documents to .atlas", modeAtlas),
		a.newModeCommand("skel", "Convert -data.json documents to .skel", modeSkeleton),
		a.newModeCommand("convert", "Split bundled exports and convert them in one pass", modeConvert),
		a.newWatchCommand(),
	)
	return root
}

func (a *app) newModeCommand(use, short string, m mode) *cobra.Command {
	return &cobra.Command{
		Use:   use + " input.json...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runFiles(cmd, m, args)
		},
	}
}

// setup loads the config file and applies flags that were set explicitly.
func (a *app) setup(cmd *cobra.Command) error {
	setupLogging(a.flags.verbose, a.flags.quiet)
	conf, err := loadConfig(a.flags.configFile)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("out") {
		conf.OutputDir = a.flags.outputDir
	}
	if flags.Changed("overwrite") {
		conf.Overwrite = a.flags.overwrite
	}
	if flags.Changed("keep-split") {
		conf.KeepSplit = a.flags.keepSplit
	}
	if flags.Changed("wrap-bytes") {
		conf.WrapSkeletonBytes = a.flags.wrapBytes
	}
	a.conf = conf
	if f, ok := cmd.OutOrStdout().(interface{ Fd() uintptr }); ok {
		a.tty = isTerminalFd(f.Fd())
	}
	return nil
}

func (a *app) runFiles(cmd *cobra.Command, m mode, args []string) error {
	results, err := newRunner(a.conf, m).run(args)
	printResults(cmd.OutOrStdout(), results, a.tty)
	return err
}
