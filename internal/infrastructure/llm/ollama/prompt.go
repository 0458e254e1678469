package ollama

import "fmt"

const promptSnippetLimit = 12000

func buildSummaryPrompt(text string, maxChars int) string {
	return fmt.Sprintf(`Summarize the document fragment below in at most %d characters.
Keep concrete facts, numbers and names. Answer in the language of the fragment.
Output only the summary text, no preamble.

Fragment:
%s`, maxChars, clipPrompt(text))
}

func buildKeywordsPrompt(text string, maxTerms int) string {
	return fmt.Sprintf(`Extract the %d most important keywords or key phrases from the document fragment below.
Return strict JSON object: {"keywords": ["...", "..."]}.
No markdown, no extra keys.

Fragment:
%s`, maxTerms, clipPrompt(text))
}

func clipPrompt(text string) string {
	r := []rune(text)
	if len(r) <= promptSnippetLimit {
		return text
	}
	return string(r[:promptSnippetLimit])
}
