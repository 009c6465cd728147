package extraction

import "strings"

// maxTextLength is the maximum number of characters sent to the model.
const maxTextLength = 8000

// systemPrompt instructs the model to return a bare JSON array only.
const systemPrompt = `You are an assistant that extracts actionable to-do items from meeting notes.
Return ONLY a valid JSON array of strings, one string per action item.
No markdown, no explanation. Start with [ and end with ].
If the text contains no action items, return [].`

// buildUserPrompt constructs the extraction prompt for the given text,
// truncated to avoid token limits.
func buildUserPrompt(text string) string {
	if len(text) > maxTextLength {
		text = text[:maxTextLength]
	}

	var sb strings.Builder
	sb.WriteString("Extract the action items from the following meeting notes. ")
	sb.WriteString("Each action item is a short, self-contained imperative sentence.\n\n")
	sb.WriteString("RULES:\n")
	sb.WriteString("1. Keep the original wording where possible\n")
	sb.WriteString("2. Strip list markers, checkboxes, and prefixes like TODO:\n")
	sb.WriteString("3. Skip narrative sentences that are not actionable\n")
	sb.WriteString("4. Do not invent items that are not in the text\n\n")
	sb.WriteString("TEXT:\n")
	sb.WriteString(text)

	return sb.String()
}
