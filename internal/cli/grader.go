package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/schollz/progressbar/v3"

	"github.com/Veraticus/gradebook/internal/common"
	"github.com/Veraticus/gradebook/internal/model"
	"github.com/Veraticus/gradebook/internal/rules"
	"github.com/Veraticus/gradebook/internal/session"
)

const helpText = `Commands:
  n, <enter>            next group (saves)
  p                     previous group (saves)
  <g>                   grade: fills the whole group when group fill is armed,
                        otherwise the next ungraded item
  <g> <g> ...           grade each item of the group in order
  set <item> <g>        grade one item by id
  .                     toggle group fill for this group
  rule <rule>           add an autofill rule, e.g. rule tier=1 and Fire -> 4 @1
  rules                 list pending rules
  unrule <n>            remove pending rule n
  apply                 apply pending rules to the whole catalog
  scale <preset>        replace the scale (5, 10, tierlist, vibes)
  s, save               save now
  stats                 grading progress
  q, quit               save and exit
  ?, help               this help`

// Grader drives a grading session from line input.
type Grader struct {
	writer     io.Writer
	controller *session.Controller
	evaluator  *rules.Evaluator
	reader     *LineReader
	view       session.View
	rendered   bool
	groupFill  bool
}

// NewGrader creates a line-mode grader. The evaluator holds rules added with
// the rule command.
func NewGrader(controller *session.Controller, evaluator *rules.Evaluator, reader io.Reader, writer io.Writer) *Grader {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}

	g := &Grader{
		writer:     writer,
		controller: controller,
		evaluator:  evaluator,
		reader:     NewLineReader(reader),
	}
	controller.Subscribe(g.render)
	return g
}

// Run processes commands until quit, end of input or cancellation. The
// gradebook is saved before Run returns normally.
func (g *Grader) Run(ctx context.Context) error {
	g.println(FormatTitle("Grading " + g.controller.State().FileID))
	if legend := FormatLegend(g.controller.State().Scale); legend != "" {
		g.println(legend)
	}
	g.println(SubtleStyle.Render("Type ? for help."))

	if _, err := g.controller.Advance(ctx); err != nil {
		g.reportError(err)
	}

	for {
		g.print(FormatPrompt(g.promptLabel()))
		line, err := g.reader.ReadLine(ctx)
		if errors.Is(err, io.EOF) {
			g.println("")
			return g.save(ctx)
		}
		if errors.Is(err, ErrInputCancelled) {
			return ctx.Err()
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		quit, err := g.Execute(ctx, line)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			g.reportError(err)
		}
		if quit {
			return g.save(ctx)
		}
	}
}

// Execute runs one command line and reports whether the session should end.
func (g *Grader) Execute(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		_, err := g.controller.Advance(ctx)
		return false, err
	}

	cmd, args := strings.ToLower(fields[0]), fields[1:]
	switch cmd {
	case "q", "quit", "exit":
		return true, nil
	case "n", "next":
		_, err := g.controller.Advance(ctx)
		return false, err
	case "p", "prev", "back":
		_, err := g.controller.Retreat(ctx)
		return false, err
	case ".":
		g.groupFill = !g.groupFill
		g.println(FormatInfo(fmt.Sprintf("Group fill %s", onOff(g.groupFill))))
		return false, nil
	case "s", "save":
		if err := g.controller.Save(ctx); err != nil {
			return false, err
		}
		g.println(FormatSuccess("Saved " + g.controller.State().FileID))
		return false, nil
	case "set":
		return false, g.setByID(ctx, args)
	case "rule":
		return false, g.addRule(strings.Join(args, " "))
	case "rules":
		g.listRules()
		return false, nil
	case "unrule":
		return false, g.removeRule(args)
	case "apply":
		return false, g.applyRules(ctx)
	case "scale":
		return false, g.replaceScale(ctx, args)
	case "stats":
		g.printStats()
		return false, nil
	case "?", "help":
		g.println(helpText)
		return false, nil
	}

	return false, g.grade(ctx, fields)
}

func (g *Grader) grade(ctx context.Context, tokens []string) error {
	scale := g.controller.State().Scale
	grades := make([]int, len(tokens))
	for i, tok := range tokens {
		v, err := rules.ResolveGrade(tok, scale)
		if err != nil {
			return common.NewUserError(fmt.Sprintf("unknown command or grade %q (? for help)", tok), err)
		}
		grades[i] = v
	}

	if !g.rendered {
		return common.NewUserError("no group is displayed yet", common.ErrValidation)
	}

	if len(grades) == 1 {
		if g.groupFill {
			g.groupFill = false
			_, err := g.controller.AutoFillCursorGroup(ctx, grades[0])
			return err
		}
		for _, e := range g.view.Entries {
			if !e.Graded() {
				_, err := g.controller.SetGrade(ctx, e.ItemID, grades[0])
				return err
			}
		}
		return common.NewUserError("every item here is graded; use set <item> <grade>", common.ErrValidation)
	}

	if len(grades) != len(g.view.Entries) {
		return common.NewUserError(
			fmt.Sprintf("got %d grades for %d items", len(grades), len(g.view.Entries)),
			common.ErrValidation)
	}
	entries := g.view.Entries
	g.groupFill = false
	for i, e := range entries {
		if _, err := g.controller.SetGrade(ctx, e.ItemID, grades[i]); err != nil {
			return err
		}
	}
	return nil
}

func (g *Grader) setByID(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return common.NewUserError("usage: set <item> <grade>", common.ErrValidation)
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return common.NewUserError(fmt.Sprintf("item %q is not a number", args[0]), common.ErrValidation)
	}
	grade, err := rules.ResolveGrade(args[1], g.controller.State().Scale)
	if err != nil {
		return err
	}
	stored, err := g.controller.SetGrade(ctx, id, grade)
	if err != nil {
		return err
	}
	if stored != grade {
		g.println(FormatWarning(fmt.Sprintf("Grade %d is outside the scale, stored %d", grade, stored)))
	}
	return nil
}

func (g *Grader) addRule(text string) error {
	rule, err := rules.ParseRule(text, g.controller.State().Scale)
	if err != nil {
		return err
	}
	if err := g.evaluator.Add(rule); err != nil {
		return err
	}
	g.println(FormatSuccess("Added rule: " + rule.Summary(g.controller.State().Scale)))
	return nil
}

func (g *Grader) listRules() {
	summaries := g.evaluator.Summaries()
	if len(summaries) == 0 {
		g.println(FormatInfo("No pending rules"))
		return
	}
	var b strings.Builder
	for i, s := range summaries {
		fmt.Fprintf(&b, "%d. %s\n", i+1, s)
	}
	g.println(RenderBox(RuleIcon+" Pending rules", strings.TrimRight(b.String(), "\n")))
}

func (g *Grader) removeRule(args []string) error {
	if len(args) != 1 {
		return common.NewUserError("usage: unrule <n>", common.ErrValidation)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return common.NewUserError(fmt.Sprintf("%q is not a rule number", args[0]), common.ErrValidation)
	}
	if err := g.evaluator.Remove(n - 1); err != nil {
		return err
	}
	g.println(FormatSuccess(fmt.Sprintf("Removed rule %d", n)))
	return nil
}

func (g *Grader) applyRules(ctx context.Context) error {
	if g.evaluator.Len() == 0 {
		g.println(FormatInfo("No pending rules"))
		return nil
	}

	bar := NewProgressBar(g.writer, g.view.Total, "Applying rules...")
	assigned, err := g.controller.ApplyRules(ctx, g.evaluator, bar)
	_ = bar.Finish()
	if err != nil {
		return err
	}
	g.println(FormatSuccess(fmt.Sprintf("Autofilled %d items", len(assigned))))
	return nil
}

func (g *Grader) replaceScale(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return common.NewUserError("usage: scale <"+strings.Join(model.PresetNames(), "|")+">", common.ErrValidation)
	}
	scale, err := model.PresetScale(args[0])
	if err != nil {
		return common.NewUserError(err.Error(), common.ErrValidation)
	}
	if err := g.controller.ReplaceScale(ctx, scale); err != nil {
		return err
	}
	g.evaluator.SetScale(scale)
	g.println(FormatSuccess("Scale is now " + scale.String()))
	if legend := FormatLegend(scale); legend != "" {
		g.println(legend)
	}
	return nil
}

func (g *Grader) printStats() {
	v := g.view
	g.println(FormatInfo(fmt.Sprintf("%s %d of %d items graded, group %d of %d",
		ChartIcon, v.Graded, v.Total, v.State.Cursor+1, v.GroupCount)))
}

func (g *Grader) save(ctx context.Context) error {
	if err := g.controller.Save(ctx); err != nil {
		return err
	}
	g.println(FormatSuccess("Saved " + g.controller.State().FileID))
	return nil
}

// render is subscribed to the controller. Every navigation re-arms group fill.
func (g *Grader) render(v session.View) {
	if v.Navigated {
		g.groupFill = true
	}
	g.view = v
	g.rendered = true

	var b strings.Builder
	for i, e := range v.Entries {
		fmt.Fprintf(&b, "%d. #%d %-14s %s\n   %s\n",
			i+1, e.ItemID, e.Name,
			SubtleStyle.Render(fmt.Sprintf("%s, tier %d", strings.Join(e.Categories, "/"), e.Tier)),
			FormatGrade(e.Grade, v.State.Scale))
	}
	title := fmt.Sprintf("Group %d of %d  (%d/%d graded)", v.State.Cursor+1, v.GroupCount, v.Graded, v.Total)
	g.println(RenderBox(title, strings.TrimRight(b.String(), "\n")))
}

func (g *Grader) promptLabel() string {
	if g.groupFill {
		return "Grade (fills group)"
	}
	return "Grade"
}

func (g *Grader) reportError(err error) {
	slog.Debug("command failed", "error", err)
	g.println(FormatError(common.UserMessage(err)))
}

func (g *Grader) print(s string) {
	if _, err := fmt.Fprint(g.writer, s); err != nil {
		slog.Warn("Failed to write output", "error", err)
	}
}

func (g *Grader) println(s string) {
	if _, err := fmt.Fprintln(g.writer, s); err != nil {
		slog.Warn("Failed to write output", "error", err)
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// NewProgressBar returns a progress bar writing to w, styled for rule application.
func NewProgressBar(w io.Writer, total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]"+description+"[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(w); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}
