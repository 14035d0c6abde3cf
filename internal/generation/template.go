package generation

import (
	"log"
	"os"
)

// fallbackTemplate is used when no template file is present. $search_results$
// and $query$ are substituted by the generation backend.
const fallbackTemplate = `You are a question answering agent. Use only the numbered search results
below to answer the user's question. If the results do not contain the
answer, say that you don't know.

Search results:
$search_results$

Question: $query$
Answer:`

// LoadTemplate reads the default prompt template once at process start.
func LoadTemplate(path string) string {
	b, err := os.ReadFile(path)
	if err != nil {
		log.Printf("prompt template %s not readable (%v), using built-in default", path, err)
		return fallbackTemplate
	}
	return string(b)
}
