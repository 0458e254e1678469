package usecase

import (
	"strings"

	"github.com/obrusnev/docqa-assistant/internal/core/domain"
)

// Keyword cues per query type, checked in priority order. Lists carry both
// Latin and CJK cues so classification works regardless of query script.
var (
	overviewCues = []string{
		"overview", "summary", "summarize", "summarise", "main idea",
		"what is this document", "in general", "overall",
		"总结", "概述", "概括", "大意", "主要内容", "整体",
	}
	extractionCues = []string{
		"quote", "verbatim", "exact", "word for word", "list all",
		"extract", "copy", "original text",
		"原文", "列出", "摘录", "逐字", "全部列",
	}
	analyticalCues = []string{
		"why", "how does", "how do", "compare", "difference", "analyze",
		"analyse", "explain", "relationship", "cause", "impact",
		"为什么", "如何", "怎么", "比较", "区别", "分析", "原因", "影响",
	}
)

// classifyQuery maps any query string to exactly one query type;
// specific is the default when no cue matches.
func classifyQuery(query string) domain.QueryType {
	q := strings.ToLower(strings.TrimSpace(query))
	switch {
	case containsAny(q, overviewCues):
		return domain.QueryOverview
	case containsAny(q, extractionCues):
		return domain.QueryExtraction
	case containsAny(q, analyticalCues):
		return domain.QueryAnalytical
	default:
		return domain.QuerySpecific
	}
}

func containsAny(s string, cues []string) bool {
	for _, cue := range cues {
		if strings.Contains(s, cue) {
			return true
		}
	}
	return false
}
