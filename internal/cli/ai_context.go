package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"hauski/internal/aicontext"
)

func newValidateAIContextCommand() *cobra.Command {
	var file string
	var templatesDir string

	cmd := &cobra.Command{
		Use:         "validate-ai-context",
		Short:       "Validate .ai-context.yml metadata files",
		Args:        usageArgs(cobra.NoArgs),
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			file = strings.TrimSpace(file)
			templatesDir = strings.TrimSpace(templatesDir)
			stderr := cmd.ErrOrStderr()
			if file == "" && templatesDir == "" {
				fmt.Fprintln(stderr, "ERROR: provide --file and/or --templates-dir")
				return &ExitError{Code: 2}
			}

			failed := false
			if file != "" {
				problems, err := aicontext.ValidateFile(file)
				ok, err := reportAIContext(cmd, problems, err, "ai-context file validation OK")
				if err != nil {
					return err
				}
				failed = failed || !ok
			}
			if templatesDir != "" {
				problems, err := aicontext.ValidateTemplates(templatesDir)
				ok, err := reportAIContext(cmd, problems, err, "ai-context template validation OK")
				if err != nil {
					return err
				}
				failed = failed || !ok
			}
			if failed {
				return &ExitError{Code: 2}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Validate a single .ai-context.yml file")
	cmd.Flags().StringVar(&templatesDir, "templates-dir", "", "Validate every *.ai-context.yml in a templates directory")
	return cmd
}

func reportAIContext(cmd *cobra.Command, problems []aicontext.Problem, err error, okMessage string) (bool, error) {
	stderr := cmd.ErrOrStderr()
	if err != nil {
		if errors.Is(err, aicontext.ErrUnusable) {
			fmt.Fprintln(stderr, "ERROR: "+aicontext.UnusableDetail(err))
			return false, &ExitError{Code: 2}
		}
		return false, err
	}
	if len(problems) > 0 {
		for _, p := range problems {
			fmt.Fprintln(stderr, "ERROR: "+p.String())
		}
		return false, nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), okMessage)
	return true, nil
}
