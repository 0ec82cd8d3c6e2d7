package prompt

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// QuestionKind distinguishes free text questions from yes/no questions.
type QuestionKind string

// Question kinds.
const (
	QuestionKindText    QuestionKind = "text"
	QuestionKindConfirm QuestionKind = "confirm"
)

const (
	questionFailedTemplateConstant      = "prompt: %s: %w"
	unknownQuestionKindTemplateConstant = "prompt: %s: unknown question kind %q"
	decodeFailedTemplateConstant        = "prompt: decode answers: %w"
	interruptedTemplateConstant         = "%w: %w"
	mapstructureTagNameConstant         = "mapstructure"
)

// ErrPromptAborted indicates that input ended before every question was answered.
var ErrPromptAborted = errors.New("prompt aborted")

// Question describes one interactive prompt.
type Question struct {
	Name           string
	Message        string
	Kind           QuestionKind
	DefaultText    string
	DefaultConfirm bool
}

// Text builds a free text question.
func Text(name string, message string, defaultValue string) Question {
	return Question{Name: name, Message: message, Kind: QuestionKindText, DefaultText: defaultValue}
}

// Confirm builds a yes/no question.
func Confirm(name string, message string, defaultValue bool) Question {
	return Question{Name: name, Message: message, Kind: QuestionKindConfirm, DefaultConfirm: defaultValue}
}

// Prompter renders one question and returns the answer, or the default on an empty reply.
type Prompter interface {
	AskText(message string, defaultValue string) (string, error)
	AskConfirm(message string, defaultValue bool) (bool, error)
}

// Ask asks every question in order. When a question fails, or executionContext is cancelled
// while a question is pending, the answers gathered so far are returned together with an
// error wrapping ErrPromptAborted.
func Ask(executionContext context.Context, prompter Prompter, questions []Question) (map[string]any, error) {
	answers := make(map[string]any, len(questions))
	for _, question := range questions {
		var ask func() (any, error)
		switch question.Kind {
		case QuestionKindText:
			ask = func() (any, error) { return prompter.AskText(question.Message, question.DefaultText) }
		case QuestionKindConfirm:
			ask = func() (any, error) { return prompter.AskConfirm(question.Message, question.DefaultConfirm) }
		default:
			return answers, fmt.Errorf(unknownQuestionKindTemplateConstant, question.Name, question.Kind)
		}

		answer, askError := askUntilCancelled(executionContext, ask)
		if askError != nil {
			if !errors.Is(askError, ErrPromptAborted) {
				askError = fmt.Errorf(interruptedTemplateConstant, ErrPromptAborted, askError)
			}
			return answers, fmt.Errorf(questionFailedTemplateConstant, question.Name, askError)
		}
		answers[question.Name] = answer
	}
	return answers, nil
}

type askResult struct {
	answer any
	err    error
}

// askUntilCancelled returns as soon as executionContext is done. A terminal read blocked
// at that moment is abandoned; the run ends right after.
func askUntilCancelled(executionContext context.Context, ask func() (any, error)) (any, error) {
	if contextError := executionContext.Err(); contextError != nil {
		return nil, fmt.Errorf(interruptedTemplateConstant, ErrPromptAborted, contextError)
	}

	results := make(chan askResult, 1)
	go func() {
		answer, askError := ask()
		results <- askResult{answer: answer, err: askError}
	}()

	select {
	case result := <-results:
		return result.answer, result.err
	case <-executionContext.Done():
		return nil, fmt.Errorf(interruptedTemplateConstant, ErrPromptAborted, executionContext.Err())
	}
}

// Decode copies answers into target using mapstructure tags. Numeric strings decode into integer fields.
func Decode(answers map[string]any, target any) error {
	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          mapstructureTagNameConstant,
		WeaklyTypedInput: true,
		Result:           target,
	})
	if decoderError != nil {
		return fmt.Errorf(decodeFailedTemplateConstant, decoderError)
	}
	if decodeError := decoder.Decode(answers); decodeError != nil {
		return fmt.Errorf(decodeFailedTemplateConstant, decodeError)
	}
	return nil
}
