package cli

import (
	"github.com/spf13/cobra"

	"github.com/querykit/querykit/metamodel"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	OutDir  string
	Package string
}

// generateResult is the JSON output of a generation run.
type generateResult struct {
	Entities []string `json:"entities"`
	Files    []string `json:"files"`
	OutDir   string   `json:"out_dir"`
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate <entities-dir>",
		Short: "Generate typed metamodel source from CUE entity definitions",
		Long: `Generate typed metamodel source from CUE entity definitions.

Reads every .cue file in the given directory, validates the entity
declarations and writes one Go source file per entity with its table
constant, property handles and row scan function.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.OutDir, "out", "o", ".", "output directory for generated source")
	cmd.Flags().StringVar(&opts.Package, "package", "model", "package name for generated source")

	return cmd
}

func runGenerate(opts *GenerateOptions, dir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	entities, err := metamodel.LoadEntities(dir)
	if err != nil {
		code := ExitFailure
		if metamodel.IsNotFound(err) {
			code = ExitCommandError
		}
		return WrapExitError(code, "loading entity definitions", err)
	}
	formatter.VerboseLog("loaded %d entities from %s", len(entities), dir)

	files, err := metamodel.Generate(entities, opts.Package)
	if err != nil {
		return WrapExitError(ExitFailure, "generating metamodel source", err)
	}

	if err := metamodel.WriteFiles(opts.OutDir, files); err != nil {
		return WrapExitError(ExitCommandError, "writing generated source", err)
	}

	result := generateResult{OutDir: opts.OutDir}
	for _, entity := range entities {
		result.Entities = append(result.Entities, entity.Name)
	}
	for _, file := range files {
		result.Files = append(result.Files, file.Name)
		formatter.VerboseLog("wrote %s", file.Name)
	}

	if formatter.Format == "json" {
		return formatter.PrintJSON(result)
	}

	formatter.Printf("generated %d files for %d entities in %s\n",
		len(files), len(entities), opts.OutDir)
	return nil
}
