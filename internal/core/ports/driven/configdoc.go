package driven

// ConfigDocumentLoader parses a training config file into an
// open-ended key-value document. Apart from the "model" key, which
// designates the model artifact, keys are passed through to the
// delegated trainer unexamined.
type ConfigDocumentLoader interface {
	Load(path string) (map[string]any, error)
}
