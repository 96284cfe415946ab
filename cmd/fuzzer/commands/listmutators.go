/*
File: listmutators.go
Description: Implements the list-mutators command. Prints every mutator in the
default registry with its description.
*/

package commands

import (
	"fmt"

	"github.com/adaptixlabs/adaptix-fuzzer/pkg/mutation"
	"github.com/spf13/cobra"
)

// ListMutators prints the default mutator registry.
func ListMutators(cmd *cobra.Command, args []string) {
	fmt.Println("Available Mutators")
	fmt.Println("==================")
	fmt.Println()

	for _, m := range mutation.DefaultMutators() {
		fmt.Printf("%s\n", m.Name())
		fmt.Printf("    %s\n\n", m.Description())
	}
}
