// Package layoutdb is the command-line front end for the instrument
// layout graph: connecting to a backing gateway, running listing and
// snapshot queries, and basic maintenance commands.
package layoutdb

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "layoutdb",
		Short: "layoutdb: time-versioned instrument configuration graph",
		Long: `layoutdb tracks the physical inventory of an experimental instrument as a
time-versioned graph: components, their typed properties, and the
connections between them, each with its own validity interval.

Complete documentation is available at https://github.com/instrumentgraph/layoutdb`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			initConfig()
		},
	}
)

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.layoutdb.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("db-driver", "", "database driver (neo4j, memory)")
	rootCmd.PersistentFlags().String("db-uri", "", "database URI (neo4j only)")
	rootCmd.PersistentFlags().String("db-username", "", "database username (neo4j only)")
	rootCmd.PersistentFlags().String("db-password", "", "database password (neo4j only)")
	rootCmd.PersistentFlags().String("db-database", "", "database name (neo4j only)")

	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("database.driver", rootCmd.PersistentFlags().Lookup("db-driver"))
	viper.BindPFlag("database.uri", rootCmd.PersistentFlags().Lookup("db-uri"))
	viper.BindPFlag("database.username", rootCmd.PersistentFlags().Lookup("db-username"))
	viper.BindPFlag("database.password", rootCmd.PersistentFlags().Lookup("db-password"))
	viper.BindPFlag("database.database", rootCmd.PersistentFlags().Lookup("db-database"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".layoutdb")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
