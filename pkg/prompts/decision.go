package prompts

import (
	"fmt"
	"strings"
)

// SchemaContext identifies the warehouse target the agent operates on.
type SchemaContext struct {
	ProjectID string
	DatasetID string
	TableID   string
}

// QualifiedTable returns the fully qualified table reference without quoting.
func (s SchemaContext) QualifiedTable() string {
	return fmt.Sprintf("%s.%s.%s", s.ProjectID, s.DatasetID, s.TableID)
}

// BuildDecisionPrompt creates the tool-selection prompt for the first LLM call.
// It describes the five warehouse tools, pins the target schema, and demands a
// JSON object with a tool_calls array as the only output.
func BuildDecisionPrompt(userQuery string, schema SchemaContext) string {
	table := schema.QualifiedTable()

	var prompt strings.Builder

	prompt.WriteString("You are a helpful AI assistant that can analyze data in Google BigQuery and answer questions about it.\n\n")

	prompt.WriteString("You have access to BigQuery tools and can:\n")
	prompt.WriteString("1. List datasets in the project (`list_dataset_ids`)\n")
	prompt.WriteString("2. Get information about datasets (`get_dataset_info`)\n")
	prompt.WriteString("3. List tables in datasets (`list_table_ids`)\n")
	prompt.WriteString("4. Get information about tables (`get_table_info`)\n")
	prompt.WriteString("5. Execute SQL queries to analyze data (`execute_sql`)\n\n")

	prompt.WriteString("Important context:\n")
	prompt.WriteString(fmt.Sprintf("- The available dataset is: %s\n", schema.DatasetID))
	prompt.WriteString(fmt.Sprintf("- The available table is: %s (in the %s dataset)\n", schema.TableID, schema.DatasetID))
	prompt.WriteString("- This table contains stock market data with columns including ticker, stock names, sectors, industries, and other financial information\n\n")

	prompt.WriteString("For each user question, decide which tool(s) to use based on what information is needed:\n")
	prompt.WriteString("- For questions about what datasets/tables exist, use list_dataset_ids, list_table_ids, etc.\n")
	prompt.WriteString("- For questions about the nature, structure, or summary of data, first get table info, then execute appropriate SQL queries\n")
	prompt.WriteString("- For questions asking to see sample data, use execute_sql with LIMIT queries\n")
	prompt.WriteString("- For analytical questions, use execute_sql with appropriate WHERE clauses\n\n")

	prompt.WriteString("Available schema:\n")
	prompt.WriteString(fmt.Sprintf("`%s`\n\n", table))

	prompt.WriteString(fmt.Sprintf("User question: %s\n\n", userQuery))

	prompt.WriteString("CRITICAL INSTRUCTIONS:\n")
	prompt.WriteString("1. ALWAYS respond with valid JSON in the exact format specified\n")
	prompt.WriteString("2. Think step by step about what information is needed to answer the question\n")
	prompt.WriteString("3. For analytical questions, generate appropriate SQL queries that directly answer the user's question\n")
	prompt.WriteString(fmt.Sprintf("4. Use proper BigQuery syntax with backticks for table names: `%s`\n", table))
	prompt.WriteString("5. For filtering queries, use appropriate WHERE clauses to get exactly what the user is asking for\n\n")

	prompt.WriteString("Respond ONLY with a JSON object in this format:\n")
	prompt.WriteString("{\n")
	prompt.WriteString("  \"tool_calls\": [\n")
	prompt.WriteString("    {\n")
	prompt.WriteString("      \"name\": \"tool_name\",\n")
	prompt.WriteString("      \"arguments\": {\"param1\": \"value1\", \"param2\": \"value2\"}\n")
	prompt.WriteString("    }\n")
	prompt.WriteString("  ]\n")
	prompt.WriteString("}\n\n")

	prompt.WriteString("If you need multiple tools, include them in the array.\n")
	prompt.WriteString("If you don't need any tools, respond with an empty array.\n\n")

	prompt.WriteString("Examples:\n")
	prompt.WriteString("- For \"What datasets do I have?\" -> use list_dataset_ids\n")
	prompt.WriteString(fmt.Sprintf("- For \"What tables are in the %s dataset?\" -> use list_table_ids with dataset_id=\"%s\"\n", schema.DatasetID, schema.DatasetID))
	prompt.WriteString(fmt.Sprintf("- For \"What is the nature of data in the %s table?\" -> use get_table_info then execute_sql with descriptive queries\n", schema.TableID))
	prompt.WriteString(fmt.Sprintf("- For \"Show me sample data from %s\" -> use execute_sql with SELECT * FROM `%s` LIMIT 10\n", schema.TableID, table))
	prompt.WriteString(fmt.Sprintf("- For \"How many stocks are there?\" -> use execute_sql with SELECT COUNT(*) FROM `%s`\n", table))
	prompt.WriteString(fmt.Sprintf("- For \"What sectors are represented?\" -> use execute_sql with SELECT DISTINCT Sector FROM `%s` WHERE Sector IS NOT NULL\n", table))

	return prompt.String()
}
