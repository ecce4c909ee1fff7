// Package presenter maps upload state onto the buttons shown for a route.
package presenter

import (
	"github.com/veranemoloko/route-uploader/internal/domain"
)

const (
	IconLoading = "progress_activity"
	IconSuccess = "check"
	IconError   = "error"
)

// ButtonConfig is the static display configuration of one button.
type ButtonConfig struct {
	Category domain.Category
	Label    string
	Icon     string
}

// Buttons lists the upload buttons in display order.
var Buttons = []ButtonConfig{
	{Category: domain.CategoryRoad, Label: "Road", Icon: "videocam"},
	{Category: domain.CategoryDriver, Label: "Driver", Icon: "person"},
	{Category: domain.CategoryLogs, Label: "Logs", Icon: "description"},
	{Category: domain.CategoryAll, Label: "All", Icon: "upload"},
}

// Dispatcher receives the intent behind a button click.
type Dispatcher interface {
	Dispatch(category domain.Category) error
}

// Button is a rendered upload button.
type Button struct {
	Category domain.Category
	Label    string
	Icon     string
	Spinning bool
	Disabled bool
	State    domain.TaskState
}

// Render builds the button for cfg in the given state.
func Render(state domain.TaskState, cfg ButtonConfig) Button {
	b := Button{
		Category: cfg.Category,
		Label:    cfg.Label,
		Icon:     cfg.Icon,
		State:    state,
		Disabled: state.Satisfied(),
	}

	switch state {
	case domain.TaskStateLoading:
		b.Icon = IconLoading
		b.Spinning = true
	case domain.TaskStateSuccess:
		b.Icon = IconSuccess
	case domain.TaskStateError:
		b.Icon = IconError
	}
	return b
}

// RenderAll renders every button from a state snapshot.
func RenderAll(states map[domain.Category]domain.TaskState) []Button {
	out := make([]Button, 0, len(Buttons))
	for _, cfg := range Buttons {
		state, ok := states[cfg.Category]
		if !ok {
			state = domain.TaskStateIdle
		}
		out = append(out, Render(state, cfg))
	}
	return out
}

// ConfigFor returns the static configuration of a category's button.
func ConfigFor(category domain.Category) (ButtonConfig, bool) {
	for _, cfg := range Buttons {
		if cfg.Category == category {
			return cfg, true
		}
	}
	return ButtonConfig{}, false
}

// Click forwards the button's category to d unless the button is disabled.
// It reports whether anything was dispatched.
func Click(b Button, d Dispatcher) (bool, error) {
	if b.Disabled {
		return false, nil
	}
	if err := d.Dispatch(b.Category); err != nil {
		return false, err
	}
	return true, nil
}

// Response converts a button into its wire form.
func (b Button) Response() domain.ButtonResponse {
	return domain.ButtonResponse{
		Category: b.Category,
		Label:    b.Label,
		Icon:     b.Icon,
		Spinning: b.Spinning,
		Disabled: b.Disabled,
		State:    b.State,
	}
}
