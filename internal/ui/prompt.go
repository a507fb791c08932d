package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/manifoldco/promptui"

	"github.com/quantmind-br/py/internal/core"
)

// ConfirmPrompt asks a yes/no confirmation question
func ConfirmPrompt(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}

	result, err := prompt.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, fmt.Errorf("operation cancelled by user")
		}
		return false, err
	}

	return result == "y", nil
}

// interpreterItem is what the picker displays per candidate
type interpreterItem struct {
	Label  string
	Detail string
}

// SelectInterpreter presents discovered interpreters for selection, with
// fuzzy search over version and path. Returns the index of the choice.
func SelectInterpreter(label string, interpreters []core.Interpreter) (int, error) {
	items := make([]interpreterItem, 0, len(interpreters))
	for _, interp := range interpreters {
		items = append(items, interpreterItem{
			Label:  "Python " + interp.Version.String(),
			Detail: fmt.Sprintf("%s, %s", interp.Path, interp.Tier),
		})
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}:",
		Active:   "▸ {{ .Label | cyan }} ({{ .Detail | faint }})",
		Inactive: "  {{ .Label | faint }} ({{ .Detail | faint }})",
		Selected: "▸ {{ .Label | green }}",
	}

	prompt := promptui.Select{
		Label:     label,
		Items:     items,
		Templates: templates,
		Size:      10,
		Searcher: func(input string, index int) bool {
			item := items[index]
			haystack := item.Label + " " + item.Detail
			return fuzzy.MatchNormalizedFold(strings.TrimSpace(input), haystack)
		},
	}

	index, _, err := prompt.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return -1, fmt.Errorf("selection cancelled by user")
		}
		return -1, err
	}

	return index, nil
}

// FuzzyFilter keeps the interpreters whose version or path fuzzy-matches
// the pattern. An empty pattern keeps everything.
func FuzzyFilter(pattern string, interpreters []core.Interpreter) []core.Interpreter {
	if strings.TrimSpace(pattern) == "" {
		return interpreters
	}

	var out []core.Interpreter
	for _, interp := range interpreters {
		haystack := interp.Version.String() + " " + interp.Path
		if fuzzy.MatchNormalizedFold(pattern, haystack) {
			out = append(out, interp)
		}
	}
	return out
}
