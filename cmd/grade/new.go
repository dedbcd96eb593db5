package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/Veraticus/gradebook/internal/cli"
	"github.com/Veraticus/gradebook/internal/common"
	"github.com/Veraticus/gradebook/internal/gradefile"
	"github.com/Veraticus/gradebook/internal/model"
)

// confirmOverwrite asks before an existing gradebook is replaced.
var confirmOverwrite = func(name string) (bool, error) {
	var overwrite bool
	err := huh.NewConfirm().
		Title(fmt.Sprintf("Gradebook %q already exists. Overwrite it?", name)).
		Description("Every grade in it will be lost.").
		Affirmative("Overwrite").
		Negative("Keep it").
		Value(&overwrite).
		Run()
	return overwrite, err
}

// chooseScale asks for a preset when none was given on the command line.
var chooseScale = func() (string, error) {
	choice := model.PresetTierList
	err := huh.NewSelect[string]().
		Title("Grade scale").
		Options(
			huh.NewOption("Tier list (F D C B A S)", model.PresetTierList),
			huh.NewOption("1 to 5", model.PresetFive),
			huh.NewOption("1 to 10", model.PresetTen),
			huh.NewOption("Vibes", model.PresetVibes),
		).
		Value(&choice).
		Run()
	return choice, err
}

func newGradebookCmd() *cobra.Command {
	var (
		preset string
		labels string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Create an empty gradebook",
		Long: fmt.Sprintf(`Create a gradebook with every catalog item ungraded.

The scale is a preset (%s) or a comma separated label list given with --labels.`,
			strings.Join(model.PresetNames(), ", ")),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			name, err := gradefile.CleanName(args[0])
			if err != nil {
				return err
			}

			scale, err := resolveScale(preset, labels)
			if err != nil {
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := initStorage(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			files, err := initFiles(cfg)
			if err != nil {
				return err
			}

			items, err := store.ListItems(ctx)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				return common.NewUserError("the catalog is empty; import one with: grade catalog import <file>", common.ErrNotFound)
			}

			text := gradefile.Encode(scale, make([]int, len(items)))
			err = files.Create(ctx, name, text, force)
			if errors.Is(err, common.ErrConflict) && isTerminal() {
				overwrite, promptErr := confirmOverwrite(name)
				if promptErr != nil {
					return fmt.Errorf("failed to confirm overwrite: %w", promptErr)
				}
				if !overwrite {
					fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Kept the existing %s gradebook", name)))
					return nil
				}
				err = files.Create(ctx, name, text, true)
			}
			if errors.Is(err, common.ErrConflict) {
				return common.NewUserError(fmt.Sprintf("gradebook %q already exists; pass --force to replace it", name), err)
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Created %s with %d items", name, len(items))))
			if legend := cli.FormatLegend(scale); legend != "" {
				fmt.Fprintln(out, legend)
			}
			fmt.Fprintln(out, cli.FormatInfo("Start grading with: grade start --name "+name))
			return nil
		},
	}

	cmd.Flags().StringVarP(&preset, "scale", "s", "", "scale preset ("+strings.Join(model.PresetNames(), ", ")+")")
	cmd.Flags().StringVar(&labels, "labels", "", "comma separated grade labels, lowest first")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "replace an existing gradebook without asking")

	return cmd
}

// resolveScale builds the scale from --scale or --labels, asking when
// neither was given on a terminal.
func resolveScale(preset, labels string) (model.GradeScale, error) {
	switch {
	case preset != "" && labels != "":
		return model.GradeScale{}, common.NewUserError("use either --scale or --labels, not both", common.ErrValidation)
	case labels != "":
		parts := strings.Split(labels, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		scale, err := model.NewGradeScale(parts)
		if err != nil {
			return model.GradeScale{}, fmt.Errorf("%w: %w", common.ErrInvalidScale, err)
		}
		return scale, nil
	case preset == "" && isTerminal():
		choice, err := chooseScale()
		if err != nil {
			return model.GradeScale{}, fmt.Errorf("failed to choose a scale: %w", err)
		}
		preset = choice
	case preset == "":
		return model.DefaultScale(), nil
	}

	scale, err := model.PresetScale(preset)
	if err != nil {
		return model.GradeScale{}, fmt.Errorf("%w: %w", common.ErrInvalidScale, err)
	}
	return scale, nil
}
