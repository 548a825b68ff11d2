package cli

import (
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
)

type nextAction string

const (
	actionResearch nextAction = "Run a research query"
	actionHistory  nextAction = "Show recent runs"
	actionExit     nextAction = "Exit"
)

// promptForNextAction asks what to do next in interactive mode.
func promptForNextAction() (nextAction, error) {
	var choice string
	prompt := &survey.Select{
		Message: "What would you like to do?",
		Options: []string{
			string(actionResearch),
			string(actionHistory),
			string(actionExit),
		},
		Default: string(actionResearch),
	}

	if err := survey.AskOne(prompt, &choice); err != nil {
		return actionExit, err
	}
	return nextAction(choice), nil
}

// promptForQuery asks for the research question.
func promptForQuery() (string, error) {
	var query string
	prompt := &survey.Input{
		Message: "What do you want to research?",
		Help:    `A stock ("Tell me about Tata Motors stock") or a sector ("Should I buy defence shares?").`,
	}

	err := survey.AskOne(prompt, &query, survey.WithValidator(func(val interface{}) error {
		if strings.TrimSpace(val.(string)) == "" {
			return fmt.Errorf("query cannot be empty")
		}
		return nil
	}))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(query), nil
}

// promptForCompanyOverride optionally pins the company name, skipping
// extraction from the query.
func promptForCompanyOverride() (string, error) {
	var company string
	prompt := &survey.Input{
		Message: "Company name (press Enter to detect from the query):",
		Help:    "Use the full Indian company name, e.g. Hindustan Aeronautics Limited.",
	}

	if err := survey.AskOne(prompt, &company); err != nil {
		return "", err
	}
	return strings.TrimSpace(company), nil
}
