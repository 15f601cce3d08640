package macro

import (
	"errors"
	"time"

	"github.com/substantial-kst/vscode-macros/internal/config"
	"github.com/substantial-kst/vscode-macros/internal/dispatcher/execctx"
	"github.com/substantial-kst/vscode-macros/internal/dispatcher/handler"
	"github.com/substantial-kst/vscode-macros/internal/engine/buffer"
	"github.com/substantial-kst/vscode-macros/internal/input"
	"github.com/substantial-kst/vscode-macros/internal/integration/terminal"
)

// Date layouts: "Mon Oct 05 2026" and "Mon Oct 5 2026".
const (
	dateLayout       = "Mon Jan 02 2006"
	dateLayoutNoZero = "Mon Jan 2 2006"
)

// FormatDate formats t the way the date macros insert it.
func FormatDate(t time.Time, zeroPad bool) string {
	if zeroPad {
		return t.Format(dateLayout)
	}
	return t.Format(dateLayoutNoZero)
}

// formattedDate returns today's date honoring macros.date.zeroPad.
func formattedDate(ctx *execctx.ExecutionContext) string {
	zeroPad := true
	if ctx.Settings != nil {
		if v, err := ctx.Settings.GetBool(config.KeyDateZeroPad); err == nil {
			zeroPad = v
		}
	}
	return FormatDate(ctx.Now(), zeroPad)
}

// editorDate replaces the selection, or inserts at the cursor, with the date.
func editorDate(_ input.Action, ctx *execctx.ExecutionContext) handler.Result {
	if ctx.ValidateForEdit() != nil {
		return handler.NoOpWithMessage(MsgEditorNotOpen)
	}

	date := formattedDate(ctx)
	return applyEdit(ctx, buffer.Replace(ctx.Editor.Selection(), date)).
		WithData("date", date)
}

// terminalDate types the date into the active terminal without a newline.
func terminalDate(_ input.Action, ctx *execctx.ExecutionContext) handler.Result {
	if ctx.Terminals == nil {
		return handler.NoOpWithMessage(MsgTerminalNotFound)
	}

	date := formattedDate(ctx)
	if ctx.DryRun {
		return handler.Success().WithData("date", date)
	}

	if err := ctx.Terminals.SendText(date, false); err != nil {
		if errors.Is(err, terminal.ErrNoActiveTerminal) || errors.Is(err, terminal.ErrTerminalClosed) {
			return handler.NoOpWithMessage(MsgTerminalNotFound)
		}
		return handler.Error(err)
	}
	return handler.Success().WithData("date", date)
}

// applyEdit applies a single edit to the editor against its current
// revision, or only reports it in a dry run.
func applyEdit(ctx *execctx.ExecutionContext, edit buffer.Edit) handler.Result {
	if !ctx.DryRun {
		batch := buffer.NewBatch(ctx.Editor.RevisionID(), edit)
		if err := ctx.Editor.ApplyEdits(batch); err != nil {
			return handler.Error(err)
		}
	}
	return handler.Success().WithEdit(edit)
}
