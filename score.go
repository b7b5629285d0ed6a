package roadtopo

import (
	"fmt"
)

// F1ScoreResult is a result of TOPO metric.
//
// Scores are not guarded against division by zero: empty proposal gives NaN precision,
// empty ground truth gives NaN recall, and any NaN (or zero precision with zero recall) gives NaN f1.
type F1ScoreResult struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

// NewF1ScoreResult computes scores from true positives, false positives and false negatives
func NewF1ScoreResult(tp, fp, fn int) F1ScoreResult {
	precision := float64(tp) / float64(tp+fp)
	recall := float64(tp) / float64(tp+fn)
	return F1ScoreResult{
		Precision: precision,
		Recall:    recall,
		F1:        2 * precision * recall / (precision + recall),
	}
}

func (result F1ScoreResult) String() string {
	return fmt.Sprintf("precision: %f | recall: %f | f1: %f", result.Precision, result.Recall, result.F1)
}
