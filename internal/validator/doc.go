// Package validator defines the core TLSAudit rule framework.
//
// Architecture overview:
//
//   - Rule catalogs (nginxRules, apacheRules) hold the fixed set of checks
//     for one server dialect. Every rule is a pure predicate over the raw
//     configuration text returning a tri-state Outcome (pass/warn/fail),
//     so a catalog can be evaluated against any text without side effects.
//   - Evaluate applies a catalog once, accumulating an EvaluationResult
//     whose counters always sum to the catalog size.
//   - DetectDialect resolves the rule catalog to apply by sniffing
//     dialect-specific marker substrings in the text.
//   - Runner coordinates concurrent evaluation of many files for batch
//     scans, invoking the same single-file path per entry.
//
// The predicates are deliberately pattern-based (substring/regexp over the
// raw text, no structured parsing). The tool is a lint-style advisory
// check, not an authoritative configuration parser, and keeps that
// trade-off on purpose.
package validator
