// Package main provides the modelmap CLI.
//
// modelmap decodes JSON documents into the catalog models with the reflection
// mapper and prints the re-serialized result:
//
//	modelmap decode --model Album --input album.json [--config mapper.yaml] [--strict]
//	modelmap models [--properties]
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		var flagErr *flags.Error
		if errors.As(err, &flagErr) && flagErr.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stdout, err)
			os.Exit(0)
		}

		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	options := NewOptions()

	parser := flags.NewParser(options, flags.HelpFlag|flags.PassDoubleDash)
	if _, err := parser.ParseArgs(args); err != nil {
		return err
	}

	cmd, err := newCommand()
	if err != nil {
		return err
	}

	switch parser.Active.Name {
	case "decode":
		return cmd.decode(ctx, options.Decode)
	case "models":
		return cmd.listModels(options.Models)
	}

	return fmt.Errorf("unsupported command %q", parser.Active.Name)
}
