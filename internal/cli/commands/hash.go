package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/droidlog/pkg/hashing"
)

// NewHashCommand creates the hash command.
func NewHashCommand() *cobra.Command {
	var algo string

	cmd := &cobra.Command{
		Use:   "hash <text>...",
		Short: "Print the digest of each argument",
		Long: `Print the hex digest of each argument, one per line.

Record fingerprints shown by 'parse --verbose' are the md5 digest of the raw line,
so this can be used to look a line up by fingerprint.

Algorithms: md5 (default), sha1, sha256, xxhash`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			for _, arg := range args {
				sum, err := hashing.Hex(hashing.Algorithm(algo), arg)
				if err != nil {
					return err
				}
				fmt.Fprintln(w, sum)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&algo, "algo", "a", string(hashing.AlgorithmMD5), "Hash algorithm")

	return cmd
}
