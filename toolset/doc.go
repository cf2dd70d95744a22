// Package toolset implements the assistant's capabilities as plain methods
// and exposes each of them as a string-in/string-out tool.Tool:
//
//   - TextTools: generate_ideas, write_content, format_draft, perform_task,
//     finalize_motorcycle_results
//   - GoogleTools: read_files, summarize_emails, send_email_summary
//   - MarketplaceTools: search_motorcycles
//   - AssistantTools: procure_motorcycle
//
// Every capability is a single prompt to a Generator. Tools are created once
// per toolset, so the same tool value can be shared by several agent specs.
package toolset
