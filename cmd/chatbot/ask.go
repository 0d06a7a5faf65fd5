package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"chatbot/internal/conversation"
	"chatbot/internal/credential"
	"chatbot/internal/gemini"
	"chatbot/internal/logging"
	"chatbot/internal/sidebar"

	"github.com/spf13/cobra"
)

var askFlags struct {
	key    string
	model  string
	images []string
	vision bool
}

var askCmd = &cobra.Command{
	Use:   "ask [message]",
	Short: "Send one message and stream the reply",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log := logging.New(cfg)
		log.SetOutput(cmd.ErrOrStderr())

		var apiKey string
		panel := sidebar.NewPanel(func(v string) { apiKey = v })
		panel.Input(askFlags.key)

		req, err := buildRequest(strings.Join(args, " "), askFlags.images, askFlags.vision)
		if err != nil {
			return err
		}
		req.Credential = credential.NewRotator(cfg.Gemini.APIKeys).Resolve(apiKey)
		req.Model = askFlags.model

		catalog := gemini.NewCatalog(nil, cfg.Gemini.TextModel, cfg.Gemini.VisionModel)
		adapter := gemini.NewAdapter(gemini.NewClientFactory(nil), catalog, log)

		out := cmd.OutOrStdout()
		if _, err := adapter.Send(cmd.Context(), req, deltaPrinter(out)); err != nil {
			return err
		}
		fmt.Fprintln(out)
		return nil
	},
}

func init() {
	askCmd.Flags().StringVar(&askFlags.key, "key", "", "Gemini API key")
	askCmd.Flags().StringVar(&askFlags.model, "model", "", "model to use")
	askCmd.Flags().StringSliceVar(&askFlags.images, "image", nil, "image file to attach (repeatable)")
	askCmd.Flags().BoolVar(&askFlags.vision, "vision", false, "use the vision model even without images")
	rootCmd.AddCommand(askCmd)
}

// buildRequest turns each image file into an image turn preceding the message.
func buildRequest(message string, imagePaths []string, vision bool) (conversation.Request, error) {
	history := make([]conversation.Turn, 0, len(imagePaths))
	for _, path := range imagePaths {
		data, err := os.ReadFile(path)
		if err != nil {
			return conversation.Request{}, fmt.Errorf("failed to read image: %w", err)
		}
		history = append(history, conversation.ImageTurn{
			From:  conversation.RoleUser,
			Image: conversation.NewImage(data, ""),
		})
	}
	return conversation.Request{
		History:   history,
		Message:   conversation.TextTurn{From: conversation.RoleUser, Content: message},
		HasImages: vision || len(history) > 0,
	}, nil
}

// deltaPrinter writes only the part of the accumulated text not printed yet.
func deltaPrinter(w io.Writer) gemini.ProgressFunc {
	printed := 0
	return func(text string) {
		if len(text) > printed {
			io.WriteString(w, text[printed:])
			printed = len(text)
		}
	}
}
