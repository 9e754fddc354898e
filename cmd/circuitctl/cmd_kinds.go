package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gyaneshwarpardhi/circuitlab/internal/circuit"
)

func newKindsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List component kinds and the roles each accepts",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			for _, k := range circuit.Kinds() {
				roles := circuit.Roles(k)
				if len(roles) == 0 {
					fmt.Fprintln(out, k)
					continue
				}
				names := make([]string, len(roles))
				for i, r := range roles {
					names[i] = string(r)
				}
				fmt.Fprintf(out, "%-18s roles: %s\n", k, strings.Join(names, ", "))
			}
		},
	}
}
