package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/spf13/cobra"

	"github.com/husw725/gpt-cli/pkg/agent"
	"github.com/husw725/gpt-cli/pkg/config"
	"github.com/husw725/gpt-cli/pkg/console"
	"github.com/husw725/gpt-cli/pkg/logger"
	"github.com/husw725/gpt-cli/pkg/search"
	"github.com/husw725/gpt-cli/pkg/skills"
	"github.com/husw725/gpt-cli/pkg/tools"
)

// newChatCommand builds the chat subcommand. Extra arguments are joined into
// the optional initial prompt.
func newChatCommand() *cobra.Command {
	var (
		verbose       bool
		model         string
		maxToolRounds int
	)

	cmd := &cobra.Command{
		Use:   "chat [prompt]",
		Short: "Start an interactive chat with your AI assistant",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Resolve()
			if err != nil {
				return err
			}
			if verbose {
				cfg.Verbose = true
			}
			if model != "" {
				cfg.Model = model
			}
			if maxToolRounds > 0 {
				cfg.MaxToolRounds = maxToolRounds
			}
			return runChat(cfg, strings.Join(args, " "))
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose tool-call logging")
	cmd.Flags().StringVar(&model, "model", "", "override the chat model")
	cmd.Flags().IntVar(&maxToolRounds, "max-tool-rounds", 0, "optional ceiling on model/tool round trips per turn (0 = unbounded)")

	return cmd
}

// runChat wires the session from an already-resolved configuration and runs
// it to completion. All normal endings exit with code 0.
func runChat(cfg config.Config, initialPrompt string) error {
	ui := console.New(os.Stdout)

	if cfg.APIKey == "" {
		key, err := promptForAPIKey(ui, &cfg)
		if err != nil {
			return err
		}
		cfg.APIKey = key
	}

	var appLogger logger.Logger = logger.NopLogger{}
	if cfg.Verbose {
		appLogger = logger.NewWriterLogger(os.Stderr)
	}

	store := skills.NewStore(cfg.SkillsDir)
	skillsText, err := store.Load()
	if err != nil {
		return fmt.Errorf("load skills: %w", err)
	}

	registry := tools.New(tools.Context{
		Skills:  store,
		Search:  search.NewClient(),
		Verbose: cfg.Verbose,
		Logger:  appLogger,
	})

	clientOpts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.BaseURL))
	}
	client := openai.NewClient(clientOpts...)

	engine := agent.NewEngine(
		agent.OpenAICompleter{Client: client},
		registry,
		openai.ChatModel(cfg.Model),
		agent.WithHooks(agent.Hooks{
			AssistantText: ui.ShowAssistant,
			ToolCall:      ui.ShowToolCall,
		}),
		agent.WithMaxToolRounds(cfg.MaxToolRounds),
		agent.WithLogger(appLogger, cfg.Verbose),
	)

	session := agent.NewSession(engine, ui, os.Stdin, skillsText)

	// An interrupt ends the session gracefully, not as an error.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		ui.ShowFarewell()
		os.Exit(0)
	}()

	return session.Run(context.Background(), initialPrompt)
}
