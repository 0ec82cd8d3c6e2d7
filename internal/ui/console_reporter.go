package ui

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/bitrise-io/go-utils/colorstring"
)

const (
	underlineEscapeSequenceConstant        = "\x1b[4m"
	plainBannerTemplateConstant            = "\n=== %s ===\n"
	coloredBannerTemplateConstant          = "\n%s%s\n"
	commandEchoTemplateConstant            = "$ %s"
	commandDirectorySuffixTemplateConstant = "  # in %s"
	toleratedFailureTemplateConstant       = "WARNING: %s exited with code %d, continuing"
	failureTemplateConstant                = "ERROR: %s"
	paragraphCornerConstant                = "+"
	paragraphHorizontalEdgeConstant        = "-"
	paragraphVerticalEdgeConstant          = "|"
	paragraphLineTemplateConstant          = "%s %s%s %s"
	paragraphPaddingCharacterConstant      = " "
	lineTerminatorConstant                 = "\n"
)

// ConsoleReporter writes operator-facing progress to a terminal stream.
type ConsoleReporter struct {
	output       io.Writer
	colorEnabled bool
}

// NewConsoleReporter constructs a reporter writing to output. A nil output discards everything.
func NewConsoleReporter(output io.Writer, colorEnabled bool) *ConsoleReporter {
	if output == nil {
		output = io.Discard
	}
	return &ConsoleReporter{output: output, colorEnabled: colorEnabled}
}

// GroupStarted prints a prominent banner for a labeled command group.
func (reporter *ConsoleReporter) GroupStarted(message string) {
	if reporter.colorEnabled {
		fmt.Fprintf(reporter.output, coloredBannerTemplateConstant, underlineEscapeSequenceConstant, colorstring.Magenta(message))
		return
	}
	fmt.Fprintf(reporter.output, plainBannerTemplateConstant, message)
}

// CommandStarted echoes a shell line before it runs.
func (reporter *ConsoleReporter) CommandStarted(line string, workingDirectory string) {
	echo := fmt.Sprintf(commandEchoTemplateConstant, line)
	if len(strings.TrimSpace(workingDirectory)) > 0 {
		echo += fmt.Sprintf(commandDirectorySuffixTemplateConstant, workingDirectory)
	}
	reporter.writeLine(echo, colorstring.Cyan)
}

// CommandTolerated reports a nonzero exit that the command's error policy allowed.
func (reporter *ConsoleReporter) CommandTolerated(line string, exitCode int) {
	reporter.writeLine(fmt.Sprintf(toleratedFailureTemplateConstant, line, exitCode), colorstring.Yellow)
}

// Failure reports a fatal problem in red.
func (reporter *ConsoleReporter) Failure(message string) {
	reporter.writeLine(fmt.Sprintf(failureTemplateConstant, message), colorstring.Red)
}

// Paragraph prints lines inside a box so the summary stands out from command output.
func (reporter *ConsoleReporter) Paragraph(lines []string) {
	width := 0
	for _, line := range lines {
		if lineWidth := utf8.RuneCountInString(line); lineWidth > width {
			width = lineWidth
		}
	}

	edge := paragraphCornerConstant + strings.Repeat(paragraphHorizontalEdgeConstant, width+2) + paragraphCornerConstant
	framed := make([]string, 0, len(lines)+2)
	framed = append(framed, edge)
	for _, line := range lines {
		padding := strings.Repeat(paragraphPaddingCharacterConstant, width-utf8.RuneCountInString(line))
		framed = append(framed, fmt.Sprintf(paragraphLineTemplateConstant, paragraphVerticalEdgeConstant, line, padding, paragraphVerticalEdgeConstant))
	}
	framed = append(framed, edge)

	fmt.Fprint(reporter.output, lineTerminatorConstant)
	for _, framedLine := range framed {
		reporter.writeLine(framedLine, colorstring.Magenta)
	}
	fmt.Fprint(reporter.output, lineTerminatorConstant)
}

func (reporter *ConsoleReporter) writeLine(text string, colorize func(a ...interface{}) string) {
	if reporter.colorEnabled {
		text = colorize(text)
	}
	fmt.Fprint(reporter.output, text+lineTerminatorConstant)
}
