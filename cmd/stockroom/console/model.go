// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package console

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bureau-foundation/stockroom/lib/bot"
	"github.com/bureau-foundation/stockroom/lib/control"
	"github.com/bureau-foundation/stockroom/lib/tui"
)

// DispatchFunc delivers one request to the router and returns its
// answer.
type DispatchFunc func(ctx context.Context, request control.DispatchRequest) (control.DispatchResponse, error)

// dispatchResultMsg carries a finished dispatch back into the update
// loop.
type dispatchResultMsg struct {
	response control.DispatchResponse
	err      error
}

// Chrome rows around the transcript: header, button row, input, help.
const chromeHeight = 4

// Model is the console's bubbletea model. It plays one operator
// talking to the bot: typed lines become messages, and the buttons of
// the most recent keyboard can be selected and pressed.
type Model struct {
	ctx      context.Context
	dispatch DispatchFunc
	operator int64
	theme    tui.Theme
	keys     KeyMap

	input    textinput.Model
	viewport viewport.Model

	transcript []string
	buttons    []bot.Button
	selected   int
	busy       bool

	width  int
	height int
}

// NewModel returns a console for operator. ctx bounds every dispatch.
func NewModel(ctx context.Context, operator int64, dispatch DispatchFunc) Model {
	input := textinput.New()
	input.Prompt = "› "
	input.Placeholder = "/start"
	input.CharLimit = 4096
	input.Focus()

	return Model{
		ctx:      ctx,
		dispatch: dispatch,
		operator: operator,
		theme:    tui.DefaultTheme,
		keys:     DefaultKeyMap,
		input:    input,
		viewport: viewport.New(80, 20),
		selected: -1,
		width:    80,
		height:   20 + chromeHeight,
	}
}

func (model Model) Init() tea.Cmd {
	return textinput.Blink
}

func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.viewport.Width = max(1, message.Width-1)
		model.viewport.Height = max(1, message.Height-chromeHeight)
		model.input.Width = max(1, message.Width-4)
		model.refresh()
		return model, nil

	case dispatchResultMsg:
		model.busy = false
		model.record(message.response, message.err)
		return model, nil

	case tea.KeyMsg:
		return model.handleKey(message)
	}

	var command tea.Cmd
	model.input, command = model.input.Update(message)
	return model, command
}

func (model Model) handleKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Quit):
		return model, tea.Quit

	case key.Matches(message, model.keys.Submit):
		return model.submit()

	case key.Matches(message, model.keys.NextButton):
		if len(model.buttons) > 0 {
			model.selected = (model.selected + 1) % len(model.buttons)
		}
		return model, nil

	case key.Matches(message, model.keys.PreviousButton):
		switch {
		case len(model.buttons) == 0:
		case model.selected < 0:
			model.selected = len(model.buttons) - 1
		default:
			model.selected = (model.selected - 1 + len(model.buttons)) % len(model.buttons)
		}
		return model, nil

	case key.Matches(message, model.keys.ClearSelection):
		model.selected = -1
		return model, nil

	case key.Matches(message, model.keys.ScrollUp):
		model.viewport.LineUp(1)
		return model, nil

	case key.Matches(message, model.keys.ScrollDown):
		model.viewport.LineDown(1)
		return model, nil

	case key.Matches(message, model.keys.PageUp):
		model.viewport.LineUp(model.viewport.Height)
		return model, nil

	case key.Matches(message, model.keys.PageDown):
		model.viewport.LineDown(model.viewport.Height)
		return model, nil
	}

	var command tea.Cmd
	model.input, command = model.input.Update(message)
	return model, command
}

// submit sends the input line, or presses the selected button when
// the input is empty. One request is in flight at a time.
func (model Model) submit() (tea.Model, tea.Cmd) {
	if model.busy {
		return model, nil
	}
	request := control.DispatchRequest{Operator: model.operator}
	text := strings.TrimSpace(model.input.Value())
	switch {
	case text != "":
		request.Text = text
		model.appendLine(model.style(model.theme.OperatorText).Render("› " + text))
		model.input.SetValue("")
	case model.selected >= 0 && model.selected < len(model.buttons):
		button := model.buttons[model.selected]
		request.Selection = button.Selection
		model.appendLine(model.style(model.theme.OperatorText).Render("› [" + button.Text + "]"))
	default:
		return model, nil
	}
	model.selected = -1
	model.busy = true
	model.refresh()

	ctx, dispatch := model.ctx, model.dispatch
	return model, func() tea.Msg {
		response, err := dispatch(ctx, request)
		return dispatchResultMsg{response: response, err: err}
	}
}

// record appends a dispatch result to the transcript. The most recent
// reply carrying buttons replaces the selectable keyboard; a result
// without any keeps the previous one.
func (model *Model) record(response control.DispatchResponse, err error) {
	if err != nil {
		model.appendLine(model.style(model.theme.ErrorText).Render("error: " + err.Error()))
		model.refresh()
		return
	}
	if len(response.Replies) == 0 {
		model.appendLine(model.style(model.theme.FaintText).Render("(no reply)"))
	}
	for _, reply := range response.Replies {
		text := reply.Text
		if reply.Kind == bot.ReplyPhoto {
			text = fmt.Sprintf("[photo, %d bytes] %s", len(reply.Image), reply.Text)
		}
		model.appendLine(model.style(model.theme.NormalText).Render(text))
		if len(reply.Buttons) > 0 {
			var buttons []bot.Button
			for _, row := range reply.Buttons {
				buttons = append(buttons, row...)
			}
			model.buttons = buttons
		}
	}
	if response.Outcome != "" && response.Outcome != bot.OutcomeOK {
		model.appendLine(model.style(model.theme.FaintText).Render("outcome: " + response.Outcome))
	}
	model.refresh()
}

func (model *Model) appendLine(line string) {
	model.transcript = append(model.transcript, line)
}

// refresh re-wraps the transcript to the viewport and follows the tail.
func (model *Model) refresh() {
	var lines []string
	for _, entry := range model.transcript {
		for _, paragraph := range strings.Split(entry, "\n") {
			lines = append(lines, tui.Wrap(paragraph, model.viewport.Width)...)
		}
	}
	model.viewport.SetContent(strings.Join(lines, "\n"))
	model.viewport.GotoBottom()
}

func (model Model) style(color lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(color)
}

func (model Model) View() string {
	header := lipgloss.NewStyle().Bold(true).Foreground(model.theme.HeaderForeground).
		Render(fmt.Sprintf("stockroom console · operator %d", model.operator))
	if model.busy {
		header += model.style(model.theme.FaintText).Render("  (waiting)")
	}

	scrollbar := tui.RenderScrollbar(model.theme, model.viewport.Height,
		model.viewport.TotalLineCount(), model.viewport.Height, model.viewport.YOffset)
	body := lipgloss.JoinHorizontal(lipgloss.Top, model.viewport.View(), scrollbar)

	help := model.style(model.theme.HelpText).Render(strings.Join([]string{
		helpEntry(model.keys.Submit),
		helpEntry(model.keys.NextButton),
		helpEntry(model.keys.ClearSelection),
		helpEntry(model.keys.Quit),
	}, "  "))

	return strings.Join([]string{
		tui.FitLine(header, model.width),
		body,
		tui.FitLine(model.renderButtons(), model.width),
		model.input.View(),
		tui.FitLine(help, model.width),
	}, "\n")
}

func (model Model) renderButtons() string {
	if len(model.buttons) == 0 {
		return model.style(model.theme.FaintText).Render("no buttons")
	}
	rendered := make([]string, len(model.buttons))
	for index, button := range model.buttons {
		style := lipgloss.NewStyle().Foreground(model.theme.ButtonForeground)
		if index == model.selected {
			style = style.Background(model.theme.SelectedBackground).Foreground(model.theme.SelectedForeground)
		}
		rendered[index] = style.Render("[" + button.Text + "]")
	}
	return strings.Join(rendered, " ")
}

func helpEntry(binding key.Binding) string {
	help := binding.Help()
	return help.Key + " " + help.Desc
}
