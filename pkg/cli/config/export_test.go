package config

// NewCatalogForTest creates a Catalog config for testing purposes
func NewCatalogForTest(path string) *Catalog {
	return &Catalog{path: path}
}

// NewRepositoryForTest creates a Repository config for testing purposes
func NewRepositoryForTest(backend, dbPath string) *Repository {
	return &Repository{backend: backend, dbPath: dbPath}
}

// NewLLMForTest creates an LLM config for testing purposes
func NewLLMForTest(provider string) *LLM {
	return &LLM{provider: provider}
}
