package testsupport

import (
	"fmt"

	"github.com/temirov/sdkrelease/internal/prompt"
)

const unexpectedAnswerTemplateConstant = "scripted answer %v does not fit question %q"

// ScriptedPrompter answers questions from a fixed queue. A string answers a text
// question, with "" selecting the default; a bool answers a confirmation. An empty
// queue aborts the prompt.
type ScriptedPrompter struct {
	Answers  []any
	Messages []string
}

// AskText pops the next answer.
func (prompter *ScriptedPrompter) AskText(message string, defaultValue string) (string, error) {
	answer, answerError := prompter.next(message)
	if answerError != nil {
		return "", answerError
	}
	text, isText := answer.(string)
	if !isText {
		return "", fmt.Errorf(unexpectedAnswerTemplateConstant, answer, message)
	}
	if len(text) == 0 {
		return defaultValue, nil
	}
	return text, nil
}

// AskConfirm pops the next answer.
func (prompter *ScriptedPrompter) AskConfirm(message string, _ bool) (bool, error) {
	answer, answerError := prompter.next(message)
	if answerError != nil {
		return false, answerError
	}
	confirmed, isBool := answer.(bool)
	if !isBool {
		return false, fmt.Errorf(unexpectedAnswerTemplateConstant, answer, message)
	}
	return confirmed, nil
}

func (prompter *ScriptedPrompter) next(message string) (any, error) {
	prompter.Messages = append(prompter.Messages, message)
	if len(prompter.Answers) == 0 {
		return nil, prompt.ErrPromptAborted
	}
	answer := prompter.Answers[0]
	prompter.Answers = prompter.Answers[1:]
	return answer, nil
}
