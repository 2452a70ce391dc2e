// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package table parses the plain-text result table printed by llm_benchmark.
//
// The upstream tool prints something like:
//
//	Model          Prompt Eval Speed   Eval Speed
//	-------------  ------------------  ----------
//	llama2:7b      42.10 tok/s         18.3 tok/s
//
// Columns are separated by runs of two or more whitespace characters. There is
// no quoting and no fixed width, so the parser is a heuristic:
//
//   - A single space never separates columns ("Prompt Eval Speed" is one cell).
//   - A single tab counts as one whitespace character and does not split either.
//   - Cell text that itself contains two or more consecutive spaces is split.
//   - Rows shorter than the header are right-padded with empty cells; longer
//     rows are kept as-is.
//
// All tokenizing goes through SplitColumns.
package table
