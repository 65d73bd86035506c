package main

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/husw725/gpt-cli/pkg/config"
	"github.com/husw725/gpt-cli/pkg/console"
)

// promptForAPIKey asks for a credential with echo disabled and persists it to
// the config env file so future sessions start without prompting.
func promptForAPIKey(ui *console.Console, cfg *config.Config) (string, error) {
	ui.Println("OpenAI API Key not found.")
	ui.Println("Please enter your API key to continue. It will be saved to a local config file.")

	for {
		fmt.Print("API Key: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return "", err
		}
		key := strings.TrimSpace(string(raw))
		if key == "" {
			ui.Println("API Key cannot be empty. Please try again.")
			continue
		}
		if err := cfg.SaveCredential(key); err != nil {
			return "", err
		}
		ui.Println(fmt.Sprintf("API Key saved to %s. You can start chatting now.", cfg.EnvFile))
		return key, nil
	}
}
