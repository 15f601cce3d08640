package macro

import (
	"errors"
	"fmt"
	"strings"

	"github.com/substantial-kst/vscode-macros/internal/config"
	"github.com/substantial-kst/vscode-macros/internal/dispatcher/execctx"
	"github.com/substantial-kst/vscode-macros/internal/dispatcher/handler"
	"github.com/substantial-kst/vscode-macros/internal/engine/buffer"
	"github.com/substantial-kst/vscode-macros/internal/input"
	"github.com/substantial-kst/vscode-macros/internal/testgen"
)

// createContext replaces the selection X with `context "X" do`.
func createContext(_ input.Action, ctx *execctx.ExecutionContext) handler.Result {
	return wrapSelection(ctx, testgen.DefaultTemplates().Container)
}

// createTest replaces the selection X with `test "X" do`.
func createTest(_ input.Action, ctx *execctx.ExecutionContext) handler.Result {
	return wrapSelection(ctx, testgen.DefaultTemplates().Leaf)
}

// wrapSelection substitutes the selected text into template.
func wrapSelection(ctx *execctx.ExecutionContext, template string) handler.Result {
	if ctx.ValidateForEdit() != nil {
		return handler.NoOpWithMessage(MsgEditorNotOpen)
	}

	sel := ctx.Editor.Selection()
	if sel.IsEmpty() {
		return handler.NoOpWithMessage(MsgNoSelection)
	}

	text := strings.Replace(template, testgen.Token, ctx.Editor.SelectedText(), 1)
	return applyEdit(ctx, buffer.Replace(sel, text))
}

// generateRubyTestFile converts the annotated outline of the active editor
// into context and test blocks.
func generateRubyTestFile(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
	if ctx.ValidateForEdit() != nil {
		return handler.NoOpWithMessage(MsgEditorNotOpen)
	}

	opts, err := GenerateOptions(ctx.Settings, action.Args)
	if err != nil {
		return handler.Error(err)
	}

	plan, err := testgen.Generate(ctx.Editor.Snapshot(), opts...)
	if err != nil {
		return handler.Error(err)
	}

	report := plan.Report
	ctx.Debug("testgen %s: %d lines, %d containers, %d leaves, %d ignored, %d unresolved",
		ctx.FilePath, report.Lines, len(report.Containers), len(report.Leaves),
		len(report.Ignored), len(report.Unresolved))

	if plan.IsEmpty() {
		return handler.NoOpWithMessage(MsgNoAnnotations).WithData("report", report)
	}

	if !ctx.DryRun {
		if err := ctx.Editor.ApplyEdits(plan.Batch); err != nil {
			return handler.Error(fmt.Errorf("apply generated edits: %w", err))
		}
	}

	return handler.Success().
		WithMessage(fmt.Sprintf("Generated %d contexts and %d tests", len(report.Containers), len(report.Leaves))).
		WithEdits(plan.Batch.Edits).
		WithData("report", report)
}

// GenerateOptions builds generator options from the testgen.* settings,
// overridden by the "unresolved" and "quotes" action arguments. Missing
// settings keep the generator defaults.
func GenerateOptions(s execctx.SettingsInterface, args input.ActionArgs) ([]testgen.Option, error) {
	o := testgen.DefaultOptions()

	setting := func(path string) (string, error) {
		if s == nil {
			return "", nil
		}
		v, err := s.GetString(path)
		if errors.Is(err, config.ErrSettingNotFound) {
			return "", nil
		}
		return v, err
	}

	unresolved, err := setting(config.KeyTestgenUnresolved)
	if err != nil {
		return nil, err
	}
	if v := args.GetString(ArgUnresolved); v != "" {
		unresolved = v
	}
	if o.Unresolved, err = testgen.ParseUnresolvedPolicy(unresolved); err != nil {
		return nil, err
	}

	quotes, err := setting(config.KeyTestgenQuotes)
	if err != nil {
		return nil, err
	}
	if v := args.GetString(ArgQuotes); v != "" {
		quotes = v
	}
	if o.Quotes, err = testgen.ParseQuotePolicy(quotes); err != nil {
		return nil, err
	}

	containers, err := setting(config.KeyTestgenContainers)
	if err != nil {
		return nil, err
	}
	if containers != "" {
		o.Containers = containers
	}

	leaves, err := setting(config.KeyTestgenLeaves)
	if err != nil {
		return nil, err
	}
	if leaves != "" {
		o.Leaves = leaves
	}

	return []testgen.Option{testgen.WithOptions(o)}, nil
}
