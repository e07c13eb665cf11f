package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/dooshek/storyteller/internal/config"
	"github.com/dooshek/storyteller/internal/fileops"
	"github.com/dooshek/storyteller/internal/logger"
	"github.com/dooshek/storyteller/internal/storyteller"
	"github.com/dooshek/storyteller/internal/tts"
	"github.com/dooshek/storyteller/internal/types"
	"github.com/fatih/color"
)

func init() {
	// Set custom usage message to show -- prefix
	flag.Usage = func() {
		out := flag.CommandLine.Output()
		fmt.Fprintf(out, "Usage of %s:\n", os.Args[0])
		flag.VisitAll(func(f *flag.Flag) {
			fmt.Fprintf(out, "  --%s", f.Name)
			name, usage := flag.UnquoteUsage(f)
			if len(name) > 0 {
				fmt.Fprintf(out, " %s", name)
			}
			fmt.Fprintf(out, "\n    \t%s", usage)
			if f.DefValue != "" && f.DefValue != "false" {
				fmt.Fprintf(out, " (default %q)", f.DefValue)
			}
			fmt.Fprintf(out, "\n")
		})
	}
}

func main() {
	genre := flag.String("genre", "fantasy", "Story genre (see --list-genres)")
	theme := flag.String("theme", "", "Story theme, e.g. \"friendship and courage\"")
	characters := flag.String("characters", "hero,villain,friend", "Comma-separated character templates, optionally template:Name")
	length := flag.String("length", "medium", "Story length hint passed to the model")
	stream := flag.Bool("stream", false, "Synthesize over a persistent websocket channel")
	outputDir := flag.String("output-dir", "", "Directory for per-segment audio files")
	scriptFile := flag.String("script", "", "Path for the story script file")
	cleanup := flag.Bool("cleanup", false, "Delete generated audio and script files, then exit")
	listVoices := flag.Bool("list-voices", false, "List available platform voices, then exit")
	listGenres := flag.Bool("list-genres", false, "List available genres and character templates, then exit")
	logLevel := flag.String("log-level", "info", "Set log level (debug|info|warn|error)")
	logFilename := flag.String("log-filename", "", "Log to file instead of stdout")
	flag.Parse()

	logger.SetLevel(*logLevel)
	if *logFilename != "" {
		if err := logger.SetOutputFile(*logFilename); err != nil {
			fmt.Printf("Error setting log file: %v\n", err)
			os.Exit(1)
		}
		defer logger.CloseLogFile()
	}

	if *listGenres {
		printPresets()
		return
	}

	if *cleanup {
		runCleanup()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Error loading config", err)
		os.Exit(1)
	}
	cfg = config.FromEnv(cfg)

	if cfg.API.Key == "" {
		logger.Error("No API key configured", fmt.Errorf("set MINIMAX_API_KEY or add api.api_key to the config file"))
		os.Exit(1)
	}

	if *outputDir != "" {
		cfg.Output.AudioDir = *outputDir
	}
	if *scriptFile != "" {
		cfg.Output.ScriptFile = *scriptFile
	}

	if *listVoices {
		runListVoices(cfg)
		return
	}

	if *theme == "" {
		logger.Error("Missing required flag", fmt.Errorf("--theme is required"))
		flag.Usage()
		os.Exit(1)
	}

	if err := run(cfg, *genre, *theme, *characters, *length, *stream); err != nil {
		logger.Error("Story generation failed", err)
		os.Exit(1)
	}
}

func run(cfg *types.Config, genre, theme, characters, length string, stream bool) error {
	ctx := context.Background()

	orchestrator, err := storyteller.New(cfg, stream)
	if err != nil {
		return err
	}

	for _, spec := range strings.Split(characters, ",") {
		spec = strings.TrimSpace(spec)
		if spec == "" {
			continue
		}

		template, customName := spec, ""
		if idx := strings.Index(spec, ":"); idx >= 0 {
			template, customName = spec[:idx], spec[idx+1:]
		}

		character, err := config.CharacterFromTemplate(template, customName)
		if err != nil {
			return err
		}
		orchestrator.AddCharacters(character)
	}

	text, err := orchestrator.GenerateStory(ctx, genre, theme, length)
	if err != nil {
		return err
	}

	segments := orchestrator.ParseSegments(ctx, text)
	if len(segments) == 0 {
		return fmt.Errorf("story produced no parseable segments")
	}

	succeeded, err := orchestrator.SynthesizeAll(ctx)
	if err != nil {
		return err
	}

	if err := orchestrator.WriteScript(); err != nil {
		logger.Warnf("Failed to write script file: %v", err)
	}

	printSummary(orchestrator, succeeded)
	return nil
}

func printSummary(orchestrator *storyteller.Orchestrator, succeeded int) {
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	segments := orchestrator.Segments()
	fmt.Println()
	green.Printf("Story complete: %d/%d segments voiced\n", succeeded, len(segments))

	for i, segment := range segments {
		if segment.AudioFile != "" {
			fmt.Printf("  %2d. %-12s %s\n", i+1, segment.Character.Name, segment.AudioFile)
		} else {
			yellow.Printf("  %2d. %-12s (no audio)\n", i+1, segment.Character.Name)
		}
	}

	summary := orchestrator.UsageSummary()
	fmt.Println()
	cyan.Println("API usage:")
	models := make([]string, 0, len(summary.Models))
	for model := range summary.Models {
		models = append(models, model)
	}
	sort.Strings(models)
	for _, model := range models {
		m := summary.Models[model]
		fmt.Printf("  %-20s %3d calls, %8d units, $%.6f\n",
			model, m.Calls, m.InputUnits+m.OutputUnits, m.EstimatedCostUS)
	}
	fmt.Printf("  Total: %d calls, estimated $%.6f\n", summary.TotalCalls, summary.EstimatedCostUS)
	if summary.MostExpensiveModel != "" {
		fmt.Printf("  Most expensive model: %s\n", summary.MostExpensiveModel)
	}
}

func runListVoices(cfg *types.Config) {
	ttsCfg := cfg.GetTTSConfig()
	client := tts.NewClient(cfg.API.Key, cfg.API.GroupID, ttsCfg.BaseURL, ttsCfg.Model, tts.AudioSetting{
		SampleRate: ttsCfg.SampleRate,
		Bitrate:    ttsCfg.Bitrate,
		Format:     ttsCfg.Format,
		Channel:    ttsCfg.Channel,
	})

	voices, err := client.ListVoices(context.Background(), "all")
	if err != nil {
		logger.Error("Failed to list voices", err)
		os.Exit(1)
	}

	cyan := color.New(color.FgCyan)
	cyan.Printf("Available voices (%d):\n", len(voices))
	for _, v := range voices {
		name := v.VoiceName
		if name == "" {
			name = "-"
		}
		fmt.Printf("  %-35s %-25s %s\n", v.VoiceID, name, strings.Join(v.Description, ", "))
	}
}

func runCleanup() {
	fileOps, err := fileops.NewDefaultFileOps()
	if err != nil {
		logger.Error("Failed to initialize file operations", err)
		os.Exit(1)
	}

	deleted, err := fileOps.CleanupGenerated(".")
	if err != nil {
		logger.Error("Cleanup failed", err)
		os.Exit(1)
	}

	logger.Infof("Cleanup complete: removed %d generated items", deleted)
}

func printPresets() {
	cyan := color.New(color.FgCyan)

	cyan.Println("Genres:")
	for _, name := range config.AvailableGenres() {
		genre, _ := config.GenreInfo(name)
		fmt.Printf("  %-12s %s\n", name, genre.Description)
		fmt.Printf("  %-12s typical cast: %s\n", "", strings.Join(genre.CommonCharacters, ", "))
	}

	fmt.Println()
	cyan.Println("Character templates:")
	for _, name := range config.AvailableTemplates() {
		fmt.Printf("  %s\n", name)
	}
}
