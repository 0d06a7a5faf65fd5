package main

import (
	"fmt"
	"io"

	"chatbot/internal/gemini"

	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models requests can be routed to",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		catalog := gemini.NewCatalog(nil, cfg.Gemini.TextModel, cfg.Gemini.VisionModel)
		printModels(cmd.OutOrStdout(), catalog)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}

func printModels(w io.Writer, catalog *gemini.Catalog) {
	for _, m := range catalog.Models() {
		vision := ""
		if m.Vision {
			vision = " (vision)"
		}
		fmt.Fprintf(w, "%s%s\n", m.ID, vision)
	}
}
