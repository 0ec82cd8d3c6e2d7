package prompt

import "context"

const proceedMessageConstant = "Proceed?"

// ConfirmationPolicy specifies how proceed prompts are answered.
type ConfirmationPolicy int

const (
	// ConfirmationPrompt asks the operator.
	ConfirmationPrompt ConfirmationPolicy = iota
	// ConfirmationAssumeYes answers yes without asking.
	ConfirmationAssumeYes
)

// ConfirmationPolicyFromBool converts the auto-yes answer into a policy.
func ConfirmationPolicyFromBool(assumeYes bool) ConfirmationPolicy {
	if assumeYes {
		return ConfirmationAssumeYes
	}
	return ConfirmationPrompt
}

// ShouldAssumeYes reports whether prompting can be skipped.
func (policy ConfirmationPolicy) ShouldAssumeYes() bool {
	return policy == ConfirmationAssumeYes
}

// Session is the per-run prompting context shared by every proceed prompt.
type Session struct {
	prompter Prompter
	policy   ConfirmationPolicy
}

// NewSession starts a session that prompts until SetPolicy says otherwise.
func NewSession(prompter Prompter) *Session {
	return &Session{prompter: prompter, policy: ConfirmationPrompt}
}

// SetPolicy changes how later proceed prompts are answered.
func (session *Session) SetPolicy(policy ConfirmationPolicy) {
	session.policy = policy
}

// Proceed asks whether to continue. Under ConfirmationAssumeYes it returns true without asking.
// A cancelled executionContext aborts with an error wrapping ErrPromptAborted either way.
func (session *Session) Proceed(executionContext context.Context) (bool, error) {
	answer, askError := askUntilCancelled(executionContext, func() (any, error) {
		if session.policy.ShouldAssumeYes() {
			return true, nil
		}
		return session.prompter.AskConfirm(proceedMessageConstant, false)
	})
	if askError != nil {
		return false, askError
	}
	return answer.(bool), nil
}
