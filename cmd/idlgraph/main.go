package main

import (
	"errors"

	"idlgraph/cmd/idlgraph/typegraph"
	"idlgraph/pkg/lib"
)

func main() {
	rootCmd.AddCommand(newBuildCommand())
	rootCmd.AddCommand(newCheckCommand())
	rootCmd.AddCommand(newListCommand())
	rootCmd.AddCommand(newShowCommand())
	rootCmd.AddCommand(newBrowseCommand())
	rootCmd.AddCommand(newPickCommand())
	rootCmd.AddCommand(newReplCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newExportCommand())

	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		lib.ExitCode(err, exitCode(err))
	}
}

// invalidInput lists the errors that mean "the schema/manifest pair is
// invalid" rather than an operational failure.
var invalidInput = []error{
	typegraph.ErrDuplicateName,
	typegraph.ErrUnsupportedDeclaration,
	typegraph.ErrUnidentifiedType,
	typegraph.ErrUnsupportedTypeShape,
	typegraph.ErrCyclicAlias,
	typegraph.ErrCyclicInheritance,
	typegraph.ErrMissingOrderingManifest,
	typegraph.ErrAttributeSetMismatch,
	typegraph.ErrUnknownOrderingSection,
	typegraph.ErrDuplicateAttribute,
}

// exitCode is 1 for invalid input and 2 for everything else (I/O, usage,
// syntax errors in the sources).
func exitCode(err error) int {
	for _, target := range invalidInput {
		if errors.Is(err, target) {
			return 1
		}
	}
	return 2
}
