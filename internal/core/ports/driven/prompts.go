package driven

// PromptStore provides access to the static instruction templates merged
// with grounding output before an external text-generation call.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names.
const (
	// PromptCoachSystem is the system instruction for the answering model.
	// It has no format placeholders.
	PromptCoachSystem = "coach_system"

	// PromptGroundedNote introduces policy excerpts when a policy was found.
	PromptGroundedNote = "grounded_note"

	// PromptGeneralNote discloses that no relevant policy was found.
	PromptGeneralNote = "general_note"

	// PromptStrictRefusal is returned to the user instead of an answer
	// when strict mode finds no policy.
	PromptStrictRefusal = "strict_refusal"
)
