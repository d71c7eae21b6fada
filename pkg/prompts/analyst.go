package prompts

import (
	"fmt"
	"strings"
)

// BuildAnalystPrompt creates the reasoning prompt for the second LLM call,
// which interprets already-formatted tool output for the user.
func BuildAnalystPrompt(originalQuery, formattedResponse string) string {
	var prompt strings.Builder

	prompt.WriteString("You are an expert data analyst and business intelligence consultant. Your task is to analyze SQL query results and provide insightful, actionable interpretations.\n\n")

	prompt.WriteString(fmt.Sprintf("Original User Query: %s\n\n", originalQuery))
	prompt.WriteString(fmt.Sprintf("SQL Agent Response: %s\n\n", formattedResponse))

	prompt.WriteString("Please provide a comprehensive analysis that includes:\n\n")
	prompt.WriteString("1. Key Insights: What are the most important findings from the data?\n")
	prompt.WriteString("2. Business Implications: What do these findings mean in a business context?\n")
	prompt.WriteString("3. Trends or Patterns: Are there any notable trends or patterns in the data?\n")
	prompt.WriteString("4. Recommendations: Based on the findings, what actionable recommendations would you suggest?\n")
	prompt.WriteString("5. Data Quality Notes: Are there any limitations or considerations about the data?\n\n")

	prompt.WriteString("Format your response in a clear, professional manner suitable for business stakeholders.\n")
	prompt.WriteString("Use markdown formatting for better readability with headers, bullet points, and emphasis where appropriate.\n")

	return prompt.String()
}
