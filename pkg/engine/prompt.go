package engine

import (
	"fmt"
	"strings"

	"github.com/germanamz/pairloop/pkg/tools/builtin"
)

// defaultSystemPrompt describes the enabled tools and the plan/act/observe
// workflow to the reasoner.
func defaultSystemPrompt(tools []builtin.Kind, sentinel string) string {
	var b strings.Builder

	b.WriteString("You are a helpful AI assistant")
	if len(tools) > 0 {
		b.WriteString(" with access to tools:\n\n")
		for i, k := range tools {
			fmt.Fprintf(&b, "%d. %s - %s\n", i+1, k, k.Description())
		}
	} else {
		b.WriteString(".\n")
	}

	b.WriteString("\nWORKFLOW:\n")
	b.WriteString("1. PLAN: Determine what tool is needed\n")
	b.WriteString("2. ACT: Call the appropriate function\n")
	b.WriteString("3. OBSERVE: Wait for the result\n")
	b.WriteString("4. RESPOND: Provide the final answer\n\n")
	fmt.Fprintf(&b, "Return '%s' when the task is complete.", sentinel)

	return b.String()
}

func formatterSystemPrompt(senderName, senderTitle, sentinel string) string {
	return fmt.Sprintf(`You are an Email Body Formatter Agent.
Create a professional HTML email body with inline CSS styling.
Include a header, body content, and footer with signature.
Sender name: %q, Designation: %q
Return ONLY the HTML content, followed by '%s'.`, senderName, senderTitle, sentinel)
}

func formatterRequest(subject, body string) string {
	return fmt.Sprintf(`Format this into professional HTML:

Subject: %s
Body: %s

Create professional HTML with header, styled content, and signature.
Return ONLY the HTML.`, subject, body)
}
