package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/stalexteam/pacycle/pkg/pacycle"
)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	var (
		targetFlag  string
		actionFlag  string
		statusFlag  string
		verboseFlag bool
		prevFlag    int64
	)

	root := &cobra.Command{
		Use:     "pacycle",
		Short:   "Cycle and adjust the default PulseAudio input/output device",
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		Example: `  pacycle --target output --action next
  pacycle --target input --action mute
  pacycle --target output --status volume`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := pacycle.NewLogger(verboseFlag)
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			defer logger.Sync()

			class, err := pacycle.ParseDeviceClass(targetFlag)
			if err != nil {
				return err
			}

			if (actionFlag == "") == (statusFlag == "") {
				return fmt.Errorf("exactly one of --action and --status is required")
			}

			config := pacycle.NewConfig(logger)
			if err := config.Load(); err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			ctrl, err := pacycle.NewController(logger, class)
			if err != nil {
				logger.Errorw("Failed to connect to audio server", "error", err)
				return fmt.Errorf("connect to audio server: %w", err)
			}
			defer ctrl.Release()

			cycler := pacycle.NewCycler(logger, config, ctrl)

			opts := pacycle.Options{}
			if prevFlag >= 0 {
				index := uint32(prevFlag)
				opts.PrevIndex = &index
			}

			if statusFlag != "" {
				query, err := pacycle.ParseStatusQuery(statusFlag)
				if err != nil {
					return err
				}

				return cycler.Status(class, query, opts)
			}

			action, err := pacycle.ParseAction(actionFlag)
			if err != nil {
				return err
			}

			return cycler.Cycle(class, action, opts)
		},
	}

	root.Flags().StringVar(&targetFlag, "target", "", "device class to operate on (input or output)")
	root.Flags().StringVar(&actionFlag, "action", "", "action to perform (next, prev, mute, inc, dec)")
	root.Flags().StringVar(&statusFlag, "status", "", "attribute to print (muted, volume, name, desc)")
	root.Flags().BoolVar(&verboseFlag, "verbose", false, "enable debug logging")
	root.Flags().Int64Var(&prevFlag, "prev", -1, "override the persisted device index (testing aid)")

	if err := root.MarkFlagRequired("target"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
