package recon

import "strings"

type StockBucket int

const (
	BucketAvailable StockBucket = iota
	BucketQualityHold
	BucketBlocked
)

// Classifier maps a free-text WMS status onto a stock bucket by keyword
// search. This is a best-effort heuristic for sources without explicit stock
// buckets; anything unrecognized counts as available. Keyword sets are
// configurable per deployment because status wording is locale-specific.
type Classifier struct {
	QualityKeywords []string
	BlockedKeywords []string
}

// DefaultClassifier covers the status wordings seen across the WMS exports we
// ingest, English and Korean.
func DefaultClassifier() Classifier {
	return Classifier{
		QualityKeywords: []string{"QC", "HOLD", "INSPECT", "QUALITY", "검사", "품질", "보류"},
		BlockedKeywords: []string{"BLOCK", "SCRAP", "REJECT", "불용", "차단", "폐기"},
	}
}

// Classify inspects the status text for blocked keywords first, then quality
// keywords, and defaults to available.
func (c Classifier) Classify(status string) StockBucket {
	s := strings.ToUpper(strings.TrimSpace(status))
	if s == "" {
		return BucketAvailable
	}
	for _, kw := range c.BlockedKeywords {
		if strings.Contains(s, strings.ToUpper(kw)) {
			return BucketBlocked
		}
	}
	for _, kw := range c.QualityKeywords {
		if strings.Contains(s, strings.ToUpper(kw)) {
			return BucketQualityHold
		}
	}
	return BucketAvailable
}
