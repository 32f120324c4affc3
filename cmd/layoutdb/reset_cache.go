package layoutdb

import (
	"github.com/spf13/cobra"
)

var resetCacheCmd = &cobra.Command{
	Use:   "reset-cache",
	Short: "Drop the process-wide identity cache",
	Long: `Reset clears every cached vertex object so the next lookup rebuilds it from
the gateway. Useful between scripted runs against the same long-lived
process, and in tests.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sharedCache.Reset()
		cmd.Println("cache reset")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resetCacheCmd)
}
