package usecase

import (
	"testing"

	"github.com/obrusnev/docqa-assistant/internal/core/domain"
)

func TestClassifyQuery(t *testing.T) {
	tests := []struct {
		query string
		want  domain.QueryType
	}{
		{"Give me an overview of the report", domain.QueryOverview},
		{"Summarize the main findings", domain.QueryOverview},
		{"总结一下这份文件", domain.QueryOverview},
		{"Quote the exact wording of clause 4", domain.QueryExtraction},
		{"List all payment deadlines", domain.QueryExtraction},
		{"列出全部的付款条件", domain.QueryExtraction},
		{"Why did revenue drop in Q3?", domain.QueryAnalytical},
		{"Compare the two proposals", domain.QueryAnalytical},
		{"为什么第三季度收入下降", domain.QueryAnalytical},
		{"What is the penalty for late delivery?", domain.QuerySpecific},
		{"payment deadline section 2", domain.QuerySpecific},
		{"交货时间", domain.QuerySpecific},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			if got := classifyQuery(tt.query); got != tt.want {
				t.Fatalf("classifyQuery(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}

func TestClassifyQueryOverviewWinsOverAnalytical(t *testing.T) {
	// Cues from multiple classes: priority order decides.
	if got := classifyQuery("summarize why the project failed"); got != domain.QueryOverview {
		t.Fatalf("expected overview to take priority, got %q", got)
	}
}

func TestClassifyQueryIsCaseInsensitive(t *testing.T) {
	if got := classifyQuery("SUMMARIZE THIS DOCUMENT"); got != domain.QueryOverview {
		t.Fatalf("expected overview for uppercase cue, got %q", got)
	}
}
