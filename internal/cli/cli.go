// Package cli provides the command line interface.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/treedump/internal/config"
	"github.com/temirov/treedump/internal/dumper"
	"github.com/temirov/treedump/internal/output"
	"github.com/temirov/treedump/internal/services/clipboard"
	"github.com/temirov/treedump/internal/tokenizer"
	"github.com/temirov/treedump/internal/types"
	"github.com/temirov/treedump/internal/utils"
)

const (
	outputFlagName    = "output"
	outputFlagShort   = "o"
	extensionFlagName = "ext"
	extensionShort    = "x"
	excludeFlagName   = "exclude"
	excludeFlagShort  = "e"
	configFlagName    = "config"
	copyFlagName      = "copy"
	summaryFlagName   = "summary"
	tokensFlagName    = "tokens"
	modelFlagName     = "model"
	globalFlagName    = "global"
	forceFlagName     = "force"

	rootUse              = "treedump [root]"
	rootShortDescription = "dump a directory tree and its source files into one text file"
	rootLongDescription  = `treedump walks a directory, lists every subdirectory and every file whose
extension is allowed, and writes the tree together with the content of those
files into a single text file. Directories named node_modules are skipped by default.
Settings are read from ~/.treedump/config.yaml and ./.treedump.yaml; flags override them.`
	rootUsageExample = `  # Dump the current directory into file.txt
  treedump

  # Dump Go sources under ./cmd, skipping vendor, into dump.txt
  treedump ./cmd -x .go -e vendor -o dump.txt

  # Dump and copy the result to the clipboard with a token count
  treedump --copy --tokens`

	initUse              = "init"
	initShortDescription = "write the default configuration file"
	initLongDescription  = `Write the default configuration to ./.treedump.yaml, or to
~/.treedump/config.yaml with --global. Existing files are kept unless --force is given.`

	outputFlagDescription    = "path of the dump file"
	extensionFlagDescription = "file extension to include, with its leading dot (repeatable)"
	excludeFlagDescription   = "directory name to skip at any depth (repeatable)"
	configFlagDescription    = "explicit configuration file"
	copyFlagDescription      = "copy the dump file to the clipboard"
	summaryFlagDescription   = "log a summary of the dump"
	tokensFlagDescription    = "log a token count of the dump file"
	modelFlagDescription     = "tokenizer model to use for token counting"
	globalFlagDescription    = "write the global configuration file"
	forceFlagDescription     = "overwrite an existing configuration file"

	dumpSavedMessageFormat     = "Directory tree and file contents saved to %s\n"
	configWrittenMessageFormat = "Configuration written to %s\n"
	warningCopyFailedMessage   = "failed to copy dump to clipboard"
	warningTokensFailedMessage = "failed to count tokens"
	tokenCountSkippedMessage   = "dump is not valid UTF-8, token count skipped"
	pathLogField               = "path"
	modelLogField              = "model"
)

// CounterFactory builds a token counter and reports the model it resolved.
type CounterFactory func(tokenizer.Config) (tokenizer.Counter, string, error)

// Dependencies are the collaborators a command tree runs with.
type Dependencies struct {
	Logger           *zap.Logger
	Copier           clipboard.Copier
	NewCounter       CounterFactory
	WorkingDirectory string
}

func (dependencies Dependencies) withDefaults() Dependencies {
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	if dependencies.Copier == nil {
		dependencies.Copier = clipboard.NewService()
	}
	if dependencies.NewCounter == nil {
		dependencies.NewCounter = tokenizer.NewCounter
	}
	return dependencies
}

// Execute runs the treedump application.
func Execute(ctx context.Context, logger *zap.Logger) error {
	rootCommand := NewRootCommand(Dependencies{Logger: logger})
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, os.Args[1:]))
	return fang.Execute(
		ctx,
		rootCommand,
		fang.WithVersion(utils.GetApplicationVersion()),
		fang.WithoutCompletions(),
		fang.WithoutManpage(),
	)
}

type dumpFlags struct {
	output     string
	extensions []string
	exclude    []string
	configPath string
	copy       bool
	summary    bool
	tokens     bool
	model      string
}

// overrides returns the configuration set explicitly on the command line.
func (flags dumpFlags) overrides(command *cobra.Command) config.ApplicationConfiguration {
	var result config.ApplicationConfiguration
	changed := command.Flags().Changed
	if changed(outputFlagName) {
		result.Output = flags.output
	}
	if changed(extensionFlagName) {
		result.Extensions = flags.extensions
	}
	if changed(excludeFlagName) {
		result.Exclude = flags.exclude
	}
	if changed(copyFlagName) {
		result.Copy = &flags.copy
	}
	if changed(summaryFlagName) {
		result.Summary = &flags.summary
	}
	if changed(tokensFlagName) {
		result.Tokens.Enabled = &flags.tokens
	}
	if changed(modelFlagName) {
		result.Tokens.Model = flags.model
	}
	return result
}

// NewRootCommand builds the treedump command tree.
func NewRootCommand(dependencies Dependencies) *cobra.Command {
	dependencies = dependencies.withDefaults()
	var flags dumpFlags

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		Example:      rootUsageExample,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			rootDirectory := types.DefaultRootDirectory
			if len(arguments) == 1 {
				rootDirectory = arguments[0]
			}
			fileConfiguration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{
				WorkingDirectory: dependencies.WorkingDirectory,
				ExplicitFilePath: flags.configPath,
			})
			if loadError != nil {
				return loadError
			}
			effective := config.DefaultApplicationConfiguration().
				Merge(fileConfiguration).
				Merge(flags.overrides(command))
			return runDump(command, dependencies, effective, rootDirectory)
		},
	}

	flagSet := rootCommand.Flags()
	flagSet.StringVarP(&flags.output, outputFlagName, outputFlagShort, types.DefaultOutputFile, outputFlagDescription)
	flagSet.StringArrayVarP(&flags.extensions, extensionFlagName, extensionShort, types.DefaultIncludeExtensions(), extensionFlagDescription)
	flagSet.StringArrayVarP(&flags.exclude, excludeFlagName, excludeFlagShort, types.DefaultExcludedDirectories(), excludeFlagDescription)
	flagSet.StringVar(&flags.configPath, configFlagName, "", configFlagDescription)
	registerBooleanFlag(flagSet, &flags.copy, copyFlagName, false, copyFlagDescription)
	registerBooleanFlag(flagSet, &flags.summary, summaryFlagName, true, summaryFlagDescription)
	registerBooleanFlag(flagSet, &flags.tokens, tokensFlagName, false, tokensFlagDescription)
	flagSet.StringVar(&flags.model, modelFlagName, types.DefaultTokenizerModel, modelFlagDescription)

	rootCommand.AddCommand(createInitCommand(dependencies))
	return rootCommand
}

func runDump(command *cobra.Command, dependencies Dependencies, effective config.ApplicationConfiguration, rootDirectory string) error {
	logger := dependencies.Logger
	result, dumpError := dumper.New(logger).Dump(effective.DumpConfiguration(rootDirectory))
	if dumpError != nil {
		return dumpError
	}

	confirmation := color.New(color.FgGreen)
	if _, printError := confirmation.Fprintf(command.OutOrStdout(), dumpSavedMessageFormat, result.OutputPath); printError != nil {
		return printError
	}

	if config.BoolValue(effective.Summary) {
		logger.Info(output.FormatSummaryLine(result), zap.String(pathLogField, result.OutputPath))
	}
	if config.BoolValue(effective.Tokens.Enabled) {
		reportTokenCount(dependencies, effective.Tokens.Model, result.OutputPath)
	}
	if config.BoolValue(effective.Copy) {
		if copyError := clipboard.CopyFile(dependencies.Copier, result.OutputPath); copyError != nil {
			logger.Warn(warningCopyFailedMessage, zap.String(pathLogField, result.OutputPath), zap.Error(copyError))
		}
	}
	return nil
}

// reportTokenCount logs the token count of the dump. Failures are logged and do not fail the run.
func reportTokenCount(dependencies Dependencies, model string, path string) {
	logger := dependencies.Logger
	counter, resolvedModel, counterError := dependencies.NewCounter(tokenizer.Config{Model: model})
	if counterError != nil {
		logger.Warn(warningTokensFailedMessage, zap.String(modelLogField, model), zap.Error(counterError))
		return
	}
	countResult, countError := tokenizer.CountFile(counter, path)
	if countError != nil {
		logger.Warn(warningTokensFailedMessage, zap.String(pathLogField, path), zap.Error(countError))
		return
	}
	if !countResult.Counted {
		logger.Info(tokenCountSkippedMessage, zap.String(pathLogField, path))
		return
	}
	logger.Info(output.FormatTokenCount(countResult.Tokens, resolvedModel), zap.String(pathLogField, path))
}

func createInitCommand(dependencies Dependencies) *cobra.Command {
	var global bool
	var force bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			path, initError := config.InitializeConfiguration(config.InitOptions{
				Target:           target,
				Force:            force,
				WorkingDirectory: dependencies.WorkingDirectory,
			})
			if initError != nil {
				return initError
			}
			_, printError := fmt.Fprintf(command.OutOrStdout(), configWrittenMessageFormat, path)
			return printError
		},
	}
	initCommand.Flags().BoolVar(&global, globalFlagName, false, globalFlagDescription)
	initCommand.Flags().BoolVar(&force, forceFlagName, false, forceFlagDescription)
	return initCommand
}
