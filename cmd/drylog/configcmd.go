package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"drylog/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(rootFlag)
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the data directory",
	Long: `Create the .drylog data directory with a default config.json and an
empty record database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.DefaultConfig().Save(rootFlag); err != nil {
			return err
		}
		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.Close()
		fmt.Printf("Initialized drylog data directory (database: %s)\n", env.db.Path())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(initCmd)
}
