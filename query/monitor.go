package query

import (
	"github.com/shelfwise/shelfwise/core"
	"github.com/shelfwise/shelfwise/index"
)

// QueryMonitor provides hooks to observe the recommendation pipeline.
// Implement this interface to track intermediate steps and results.
type QueryMonitor interface {
	Start(query string)
	AfterEnhancement(enhanced string)
	AfterVectorization(vector []float32)
	AfterRetrieval(hits []index.Hit)
	CandidateSkipped(id string, err error)
	CandidateFiltered(id string)
	Finish(results []*core.RecommendationResult)
}

// noopMonitor is a no-op implementation of QueryMonitor
type noopMonitor struct{}

var _ QueryMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                        {}
func (n *noopMonitor) AfterEnhancement(_ string)             {}
func (n *noopMonitor) AfterVectorization(_ []float32)        {}
func (n *noopMonitor) AfterRetrieval(_ []index.Hit)          {}
func (n *noopMonitor) CandidateSkipped(_ string, _ error)    {}
func (n *noopMonitor) CandidateFiltered(_ string)            {}
func (n *noopMonitor) Finish(_ []*core.RecommendationResult) {}
