// Package model defines the provider-agnostic abstractions for talking to
// language models inside lifemesh.
//
//   - Request / Response shapes shared by every provider adapter
//   - ToolDefinition / ToolCall normalization for function calling
//   - GenerateText for one-shot prompts (used by capabilities)
//   - Catalog resolving model identifiers such as "gemini-2.0-flash" or
//     "gpt-4o-mini" to a concrete provider
//   - MockModel for deterministic tests
//
// Provider adapters live in the gemini, openai and anthropic sub-packages.
package model
