package prompt

import (
	"errors"
	"io"

	"github.com/bitrise-io/goinp/goinp"
)

// TerminalPrompter asks questions on a terminal through goinp.
type TerminalPrompter struct {
	input *singleByteReader
}

// NewTerminalPrompter reads answers from input.
func NewTerminalPrompter(input io.Reader) *TerminalPrompter {
	return &TerminalPrompter{input: &singleByteReader{source: input}}
}

// AskText asks for a line of text.
func (prompter *TerminalPrompter) AskText(message string, defaultValue string) (string, error) {
	prompter.input.beginAnswer()
	answer, askError := goinp.AskForStringFromReaderWithDefault(message, defaultValue, prompter.input)
	if abortError := prompter.input.abortError(askError); abortError != nil {
		return "", abortError
	}
	return answer, nil
}

// AskConfirm asks a yes/no question.
func (prompter *TerminalPrompter) AskConfirm(message string, defaultValue bool) (bool, error) {
	prompter.input.beginAnswer()
	answer, askError := goinp.AskForBoolFromReaderWithDefaultValue(message, defaultValue, prompter.input)
	if abortError := prompter.input.abortError(askError); abortError != nil {
		return false, abortError
	}
	return answer, nil
}

// singleByteReader hands goinp one byte per Read so that the buffered reader goinp
// creates for each question never consumes the next answer.
type singleByteReader struct {
	source    io.Reader
	consumed  int
	exhausted bool
}

func (reader *singleByteReader) Read(buffer []byte) (int, error) {
	if len(buffer) == 0 {
		return 0, nil
	}
	if reader.source == nil {
		reader.exhausted = true
		return 0, io.EOF
	}
	readCount, readError := reader.source.Read(buffer[:1])
	reader.consumed += readCount
	if errors.Is(readError, io.EOF) {
		reader.exhausted = true
	}
	return readCount, readError
}

func (reader *singleByteReader) beginAnswer() {
	reader.consumed = 0
}

func (reader *singleByteReader) abortError(askError error) error {
	if askError != nil {
		if reader.exhausted {
			return errors.Join(ErrPromptAborted, askError)
		}
		return askError
	}
	if reader.exhausted && reader.consumed == 0 {
		return ErrPromptAborted
	}
	return nil
}
