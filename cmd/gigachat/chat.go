package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"gigachat-go/gigachat/pkg/gigachat"
)

var chatFlags struct {
	stream      bool
	model       string
	system      string
	temperature float64
	maxTokens   int64
}

var chatCmd = &cobra.Command{
	Use:   "chat [prompt]",
	Short: "Send a chat completion request",
	Long: `Send a chat completion request and print the assistant's reply.

The prompt is taken from the arguments, or from stdin when no arguments are
given, so the command composes with pipes.

Examples:
  # Ask directly
  gigachat chat "What is Go?"

  # Stream the reply as it is generated
  gigachat chat --stream "Tell me a story"

  # Pipe a prompt in
  cat question.txt | gigachat chat

  # Pick a model and add a system prompt
  gigachat chat --model GigaChat-Pro --system "Answer in French" "Hello"`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().BoolVar(&chatFlags.stream, "stream", false, "stream the reply as it is generated")
	chatCmd.Flags().StringVarP(&chatFlags.model, "model", "m", "", "override the configured model")
	chatCmd.Flags().StringVar(&chatFlags.system, "system", "", "system prompt")
	chatCmd.Flags().Float64Var(&chatFlags.temperature, "temperature", 0, "sampling temperature")
	chatCmd.Flags().Int64Var(&chatFlags.maxTokens, "max-tokens", 0, "maximum tokens to generate")
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	prompt := strings.TrimSpace(strings.Join(args, " "))
	if prompt == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read prompt from stdin: %w", err)
		}
		prompt = strings.TrimSpace(string(data))
	}
	if prompt == "" {
		return fmt.Errorf("no prompt given")
	}

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	setupLogging(cfg)

	client, err := newClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	chat := &gigachat.Chat{Model: chatFlags.model}
	if chatFlags.system != "" {
		chat.Messages = append(chat.Messages, gigachat.Message{
			Role:    gigachat.RoleSystem,
			Content: chatFlags.system,
		})
	}
	chat.Messages = append(chat.Messages, gigachat.Message{
		Role:    gigachat.RoleUser,
		Content: prompt,
	})
	if chatFlags.temperature != 0 {
		chat.Temperature = &chatFlags.temperature
	}
	if chatFlags.maxTokens != 0 {
		chat.MaxTokens = &chatFlags.maxTokens
	}

	if chatFlags.stream {
		return streamChat(cmd, client, chat)
	}

	completion, err := client.Chat(ctx, chat)
	if err != nil {
		return err
	}
	if len(completion.Choices) == 0 {
		return fmt.Errorf("the API returned no choices")
	}
	fmt.Fprintln(cmd.OutOrStdout(), completion.Choices[0].Message.Content)
	return nil
}

func streamChat(cmd *cobra.Command, client *gigachat.Client, chat *gigachat.Chat) error {
	stream, err := client.ChatStream(cmd.Context(), chat)
	if err != nil {
		return err
	}
	defer stream.Close()

	out := cmd.OutOrStdout()
	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) > 0 {
			fmt.Fprint(out, chunk.Choices[0].Delta.Content)
		}
	}
	fmt.Fprintln(out)
	return stream.Err()
}
