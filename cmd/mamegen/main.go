// Package main contains the cli implementation of the tool. It uses
// cobra package for cli tool implementation.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mitumame/mamegen/internal/analyser"
	"github.com/mitumame/mamegen/internal/generate"
	"github.com/mitumame/mamegen/internal/ir"
	"github.com/mitumame/mamegen/internal/lexer"
	"github.com/mitumame/mamegen/internal/output"
	"github.com/mitumame/mamegen/internal/parser"
	"github.com/mitumame/mamegen/internal/reference"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mamegen <input.mgen> <output.{csv,json}>",
		Short: "Mock tabular data generator driven by a small DSL",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return run(args[0], args[1])
		},
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(inputPath, outputPath string) error {
	src, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", inputPath, err)
	}

	tokens := lexer.New(string(src)).Tokenize()

	sections, err := parser.Parse(tokens)
	if err != nil {
		return err
	}

	prog, err := analyser.Analyse(sections)
	if err != nil {
		return err
	}
	prog.Config.OutputPath = outputPath

	store := reference.NewStore(prog.References)

	result, err := generate.New(prog, store).Generate()
	if err != nil {
		return err
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outputPath, err)
	}
	defer func() {
		_ = out.Close()
	}()

	format := output.Resolve(outputPath, prog.Config.Type)
	opts := output.Options{
		WithHeader:   prog.Config.WithHeader,
		QuoteStrings: prog.Config.QuoteStrings,
		QuoteHeader:  prog.Config.QuoteHeader,
		Encoding:     prog.Config.OutputEncoding,
	}

	if err := output.Encode(out, result.Header, result.Rows, format, opts); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	fmt.Printf("generated %d row(s) into %s\n", prog.Config.Count, outputPath)
	return nil
}
