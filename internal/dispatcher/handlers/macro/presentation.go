package macro

import (
	"fmt"

	"github.com/substantial-kst/vscode-macros/internal/config"
	"github.com/substantial-kst/vscode-macros/internal/dispatcher/execctx"
	"github.com/substantial-kst/vscode-macros/internal/dispatcher/handler"
	"github.com/substantial-kst/vscode-macros/internal/input"
)

// Default presentation zoom levels.
const (
	DefaultZoomMin = 0
	DefaultZoomMax = 2
)

// intSetting reads an integer setting, falling back to def when it is
// missing or malformed.
func intSetting(s execctx.SettingsInterface, path string, def int) int {
	v, err := s.GetInt(path)
	if err != nil {
		return def
	}
	return v
}

// NextZoomLevel returns the zoom level the toggle switches to.
func NextZoomLevel(current float64, zoomMin, zoomMax int) int {
	if current < float64(zoomMax) {
		return zoomMax
	}
	return zoomMin
}

// togglePresentationMode flips window.zoomLevel between the presentation
// maximum and minimum. Overrides at every scope are cleared first so the
// new user value takes effect.
func togglePresentationMode(_ input.Action, ctx *execctx.ExecutionContext) handler.Result {
	if err := ctx.ValidateForSettings(); err != nil {
		return handler.Error(err)
	}
	s := ctx.Settings

	zoom, err := s.GetFloat(config.KeyZoomLevel)
	if err != nil {
		ctx.Debug("zoom level unavailable: %v", err)
		return handler.NoOpWithMessage(MsgNoZoomLevel)
	}

	zoomMin := intSetting(s, config.KeyPresentationMin, DefaultZoomMin)
	zoomMax := intSetting(s, config.KeyPresentationMax, DefaultZoomMax)
	next := NextZoomLevel(zoom, zoomMin, zoomMax)

	result := handler.Success().
		WithData("previous", zoom).
		WithData("zoomLevel", next)
	if ctx.DryRun {
		return result
	}

	for _, scope := range config.Scopes() {
		if err := s.Unset(scope, config.KeyZoomLevel); err != nil {
			return handler.Error(fmt.Errorf("clear zoom level at %s scope: %w", scope, err))
		}
	}
	if err := s.SetAt(config.ScopeUser, config.KeyZoomLevel, next); err != nil {
		return handler.Error(fmt.Errorf("set zoom level: %w", err))
	}

	ctx.Debug("zoom level %v -> %d", zoom, next)
	return result
}
