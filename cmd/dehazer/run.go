package main

import (
	"fmt"

	"dehazer/internal/algorithms/darkchannel"
	"dehazer/internal/gui"
	"dehazer/internal/models"
	"dehazer/internal/pipeline"
	"dehazer/internal/shutdown"

	"github.com/spf13/cobra"
)

var (
	runCfg      pipeline.Config
	runParams   = models.DefaultDehazeParameters()
	darkWindow  int
	guideWindow int
	showWindow  bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Dehaze one image",
	Example: `  dehazer run -i hazy.jpg -o clear.png
  dehazer run -i hazy.jpg --width 500 --compare side_by_side.jpg --show
  curl -s https://example.com/hazy.jpg | dehazer run -i - -o clear.png`,
	Args: cobra.NoArgs,
	RunE: runDehaze,
}

func init() {
	f := runCmd.Flags()
	f.StringVarP(&runCfg.InputPath, "input", "i", "", "hazy input image, - reads standard input (required)")
	f.StringVarP(&runCfg.OutputPath, "output", "o", "", "where to write the dehazed image")
	f.StringVar(&runCfg.ComparePath, "compare", "", "write original and result side by side to this file")
	f.StringVar(&runCfg.DumpDir, "dump-dir", "", "write dark channel and transmission maps to this directory")
	f.IntVar(&runCfg.DisplayWidth, "width", 0, fmt.Sprintf("resize to this width before dehazing, keeping aspect (0 keeps size, %d fits a typical screen)", pipeline.DefaultDisplayWidth))
	f.BoolVar(&showWindow, "show", false, "show original and result in a window")

	f.IntVar(&darkWindow, "dark-window", models.DefaultDarkChannelWindow, "dark channel min-filter size")
	f.IntVar(&guideWindow, "guided-window", models.DefaultGuidedWindow, "guided filter box size")
	f.Float64Var(&runParams.GuidedEpsilon, "eps", models.DefaultGuidedEpsilon, "guided filter regularisation")
	f.Float64Var(&runParams.Omega, "omega", models.DefaultOmega, "haze retention factor")
	f.Float64Var(&runParams.TransmissionFloor, "t-min", models.DefaultTransmissionFloor, "transmission floor")
	f.Float64Var(&runParams.TopFraction, "top-fraction", models.DefaultTopFraction, "share of brightest dark channel pixels used for atmospheric light")
	f.IntVar(&runParams.Workers, "workers", 0, "parallel workers per stage (0 uses GOMAXPROCS)")

	_ = runCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(runCmd)
}

func runDehaze(cmd *cobra.Command, args []string) error {
	runParams.DarkChannelWindow = models.Square(darkWindow)
	runParams.GuidedWindow = models.Square(guideWindow)

	if runCfg.OutputPath == "" && runCfg.ComparePath == "" && runCfg.DumpDir == "" && !showWindow {
		return fmt.Errorf("nothing to do: pass --output, --compare, --dump-dir or --show")
	}

	processor, err := darkchannel.NewProcessor(runParams, darkchannel.WithLogger(log))
	if err != nil {
		return err
	}

	runCfg.Stdin = cmd.InOrStdin()

	interrupts := shutdown.NewManager(cmd.Context(), log)
	stop := interrupts.Listen()
	report, err := pipeline.NewCoordinator(processor, log).Run(interrupts.Context(), runCfg)
	stop()
	if err != nil {
		return err
	}

	light := report.Result.AtmosphericLight
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %dx%d, atmospheric light (B,G,R) = %.1f, %.1f, %.1f, digest %016x\n",
		runCfg.InputPath, report.Original.Width, report.Original.Height,
		light[0], light[1], light[2], report.Result.Digest)
	for _, path := range report.Written {
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	}

	if showWindow {
		return gui.ShowComparison("Dehaze", report.Original, report.Result.Output)
	}
	return nil
}
