package util

import (
	"bufio"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/manifoldco/promptui"
	"github.com/pkg/errors"
)

var (
	IsDebug bool

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true).
			Underline(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF4757")).
			Bold(true)

	debugErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#FF4757")).
			Padding(1, 2)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA726")).
			Bold(true)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF69B4")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)
)

// ErrEmptyInput is returned when the user submits a blank prompt.
var ErrEmptyInput = errors.New("input cannot be empty")

// SetDebugMode sets the debug mode
func SetDebugMode(debug bool) {
	IsDebug = debug
}

// Title renders a section heading.
func Title(s string) string { return titleStyle.Render(s) }

// Success renders a confirmation line.
func Success(s string) string { return successStyle.Render("✓ " + s) }

// Warning renders a non-fatal notice.
func Warning(s string) string { return warningStyle.Render("! " + s) }

// ErrorHandler returns a stylized error message with beautiful formatting
func ErrorHandler(err error) string {
	if IsDebug {
		errorMessage := fmt.Sprintf("%s %s %s", "🚨", "DEBUG ERROR", "🔍")
		fullError := fmt.Sprintf("%+v", err)

		styledHeader := errorStyle.Render(errorMessage)
		styledError := debugErrorStyle.Render(fullError)

		return fmt.Sprintf("%s\n%s", styledHeader, styledError)
	}

	styledError := errorStyle.Render(fmt.Sprintf("%s %v", "❌", err))
	styledHint := warningStyle.Render(fmt.Sprintf("%s %s", "💡", "run the program with --debug to see details"))

	return fmt.Sprintf("%s\n%s", styledError, styledHint)
}

// PromptInput asks the user for a single line of text
func PromptInput(label string) (string, error) {
	// Use simpler input method on Windows to avoid readline ANSI issues
	if runtime.GOOS == "windows" {
		return getSimpleInput(label)
	}

	prompt := promptui.Prompt{
		Label: promptStyle.Render("🎮 " + label),
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return ErrEmptyInput
			}
			return nil
		},
	}

	input, err := prompt.Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// getSimpleInput provides a fallback input method for Windows
func getSimpleInput(label string) (string, error) {
	fmt.Print(promptStyle.Render("🎮 " + label + ": "))

	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return "", ErrEmptyInput
	}
	return input, nil
}

// SelectMenuItem provides a cross-platform way to select from a menu
// Windows-compatible alternative to promptui.Select
func SelectMenuItem(label string, items []string) (int, string, error) {
	if runtime.GOOS == "windows" {
		return simpleSelectMenu(label, items)
	}

	prompt := promptui.Select{
		Label: promptStyle.Render(label),
		Items: items,
		Size:  10,
	}

	index, result, err := prompt.Run()
	if err != nil {
		return -1, "", err
	}

	fmt.Println(Success("Selected: " + result))
	return index, result, nil
}

// simpleSelectMenu provides a simple menu selection for Windows systems
func simpleSelectMenu(label string, items []string) (int, string, error) {
	fmt.Println(promptStyle.Render(label))
	for i, item := range items {
		fmt.Printf("%d. %s\n", i+1, item)
	}

	fmt.Print(promptStyle.Render(fmt.Sprintf("Enter selection (1-%d): ", len(items))))
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return -1, "", err
	}

	selection, err := ParseSelection(input, len(items))
	if err != nil {
		return -1, "", err
	}

	fmt.Println(Success("Selected: " + items[selection]))
	return selection, items[selection], nil
}

// ParseSelection converts a 1-based menu answer into a 0-based index.
func ParseSelection(input string, count int) (int, error) {
	input = strings.TrimSpace(input)
	var selection int
	if _, err := fmt.Sscanf(input, "%d", &selection); err != nil || selection < 1 || selection > count {
		return -1, fmt.Errorf("invalid selection: %s", input)
	}
	return selection - 1, nil
}
