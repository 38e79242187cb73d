package model

import (
	"fmt"
	"sort"
	"strings"
)

// composePrompts are the purpose specific system prompts shared by the
// vendor adapters. Each states the exact output contract the specialists
// parse; anything outside the contract is treated as a tool failure by the
// owning specialist, so the prompts insist on bare output.
var composePrompts = map[Purpose]string{
	PurposeSQL: `You translate a university staff request into exactly one read-only SQL query for the schema provided in context. Rules: SELECT statements only; use only tables and columns present in the schema; no comments, no explanation, no code fences. Output the SQL text and nothing else.`,

	PurposeChart: `You design a chart for previously retrieved rows. Output a single JSON object and nothing else: {"kind":"bar|line|pie","title":"...","x":"<label column>","y":"<numeric column>"}. Leave x or y empty to let the renderer pick sensible columns.`,

	PurposeEmail: `You draft an email for university staff. Output a single JSON object and nothing else: {"recipients":["..."],"subject":"...","body":"..."}. Keep the tone professional and concise.`,

	PurposeWrite: `You translate a staff request into one database mutation. Output a single JSON object and nothing else: {"operation":"insert|update","table":"...","values":{"column":value,...},"where":{"column":value,...}}. Use only tables and columns from the schema in context; omit "where" for inserts.`,

	PurposeFetch: `You translate a staff request into one external system call. Output a single JSON object and nothing else: {"system":"lms|sis|crm","endpoint":"...","params":{"key":"value"}}. Valid endpoints are listed in context.`,

	PurposeSynthetic: `You plan synthetic record generation. Output a single JSON object and nothing else: {"table":"...","count":N}. Use only tables from the schema in context; keep count at or below 100.`,

	PurposeSummary: `You summarize retrieved results for a university staff member. Be friendly, professional and concise; use precise numbers from the data; never invent values or use placeholders; no closing pleasantries; no prefix tags.`,
}

// ComposePrompt builds the full system prompt for a composition request,
// appending the context material in a stable order.
func ComposePrompt(req ComposeRequest) string {
	var sb strings.Builder
	sb.WriteString(composePrompts[req.Purpose])

	keys := make([]string, 0, len(req.Context))
	for k := range req.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, "\n\n[%s]\n%s", k, req.Context[k])
	}
	return sb.String()
}
