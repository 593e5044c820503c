package driven

// Prompter collects connection details interactively. The terminal
// implementation reads secrets without echo; tests substitute a canned
// implementation.
type Prompter interface {
	// PromptURL asks for the instance URL.
	PromptURL() (string, error)

	// PromptCredential asks for a client ID and secret. The secret is
	// read without echo.
	PromptCredential() (clientID, clientSecret string, err error)
}
