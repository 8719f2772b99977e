package ui

import (
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/ytget/likedl/internal/model"
)

// ErrQuit is returned by a Selector when the user leaves the browse screen
var ErrQuit = errors.New("quit")

// Selector picks the items to download. An empty selection means quit.
type Selector interface {
	Select(items []model.Item) ([]model.Item, error)
}

// SurveySelector asks with a survey multi-select prompt
type SurveySelector struct {
	PageSize int
	Options  []survey.AskOpt
}

// NewSurveySelector creates a selector on the process terminal
func NewSurveySelector() *SurveySelector {
	return &SurveySelector{PageSize: SelectPageSize}
}

// Select shows the prompt. Ctrl+C maps to ErrQuit.
func (s *SurveySelector) Select(items []model.Item) ([]model.Item, error) {
	if len(items) == 0 {
		return nil, nil
	}

	prompt := &survey.MultiSelect{
		Message:  TextSelectPrompt,
		Options:  OptionLabels(items),
		PageSize: s.PageSize,
		Help:     TextSelectHelp,
	}

	var indices []int
	if err := survey.AskOne(prompt, &indices, s.Options...); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return nil, ErrQuit
		}
		return nil, fmt.Errorf("selection failed: %w", err)
	}

	return pick(items, indices), nil
}

// AllSelector selects every item without asking
type AllSelector struct{}

// Select returns items unchanged
func (AllSelector) Select(items []model.Item) ([]model.Item, error) {
	return items, nil
}

// OptionLabels renders one prompt line per item. Labels are numbered so
// identical titles stay distinguishable.
func OptionLabels(items []model.Item) []string {
	labels := make([]string, len(items))
	for i, item := range items {
		labels[i] = fmt.Sprintf("%3d. %s | %s | %s",
			i+1,
			truncate(item.Title, MaxTitleWidth),
			truncate(item.Channel, MaxChannelWidth),
			item.DurationString())
	}
	return labels
}

// pick returns items at indices in list order, ignoring out-of-range values
func pick(items []model.Item, indices []int) []model.Item {
	chosen := make(map[int]bool, len(indices))
	for _, i := range indices {
		if i >= 0 && i < len(items) {
			chosen[i] = true
		}
	}

	selected := make([]model.Item, 0, len(chosen))
	for i, item := range items {
		if chosen[i] {
			selected = append(selected, item)
		}
	}
	return selected
}

// truncate shortens s to max runes, marking the cut with an ellipsis
func truncate(s string, max int) string {
	runes := []rune(s)
	if max <= 0 || len(runes) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(runes[:max-1]) + "…"
}
