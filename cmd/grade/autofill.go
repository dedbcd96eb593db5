package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Veraticus/gradebook/internal/cli"
	"github.com/Veraticus/gradebook/internal/common"
	"github.com/Veraticus/gradebook/internal/rules"
	"github.com/Veraticus/gradebook/internal/session"
)

func autofillCmd() *cobra.Command {
	var (
		ruleTexts []string
		dryRun    bool
	)

	cmd := &cobra.Command{
		Use:   "autofill",
		Short: "Grade matching items in bulk",
		Long: `Apply autofill rules to a saved gradebook and save the result.

Each --rule has the form "<predicate> [and|or <predicate>] -> <grade> [@priority]",
for example:

  grade autofill --name starters --rule "tier=1 and Fire -> S @1" --rule "Water -> 4"

Lower priorities win when several rules match the same item.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if len(ruleTexts) == 0 {
				return common.NewUserError("give at least one --rule", common.ErrValidation)
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			name := gradebookName(cmd, cfg)

			store, err := initStorage(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			files, err := initFiles(cfg)
			if err != nil {
				return err
			}

			sessionCfg, err := restoreSession(ctx, store, files, name)
			if err != nil {
				return err
			}

			evaluator := rules.NewEvaluator(sessionCfg.Scale, cfg.MaxTier)
			for _, text := range ruleTexts {
				rule, err := rules.ParseRule(text, sessionCfg.Scale)
				if err != nil {
					return common.NewUserError(fmt.Sprintf("bad rule %q: %v", text, err), err)
				}
				if err := evaluator.Add(rule); err != nil {
					return common.NewUserError(fmt.Sprintf("bad rule %q: %v", text, err), err)
				}
			}

			items, err := store.ListItems(ctx)
			if err != nil {
				return err
			}

			if dryRun {
				matches := evaluator.Resolve(items)
				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				for _, item := range items {
					grade, ok := matches[item.ID]
					if !ok {
						continue
					}
					fmt.Fprintf(w, "#%d\t%s\t%s\n", item.ID, item.Name, cli.FormatGrade(grade, sessionCfg.Scale))
				}
				_ = w.Flush()
				fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Would grade %d items in %s", len(matches), name)))
				return nil
			}

			controller, err := session.New(ctx, store, files, sessionCfg)
			if err != nil {
				return err
			}

			bar := cli.NewProgressBar(cmd.ErrOrStderr(), len(items), "Applying rules")
			assigned, err := controller.ApplyRules(ctx, evaluator, bar)
			_ = bar.Finish()
			if err != nil {
				return err
			}

			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Autofilled %d items in %s", len(assigned), name)))
			return nil
		},
	}

	cmd.Flags().StringP("name", "n", "", "gradebook name (default from gradebook.name)")
	cmd.Flags().StringArrayVarP(&ruleTexts, "rule", "r", nil, "autofill rule (repeatable)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be graded without saving")

	return cmd
}
