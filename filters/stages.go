package filters

import (
	"fmt"
	"strings"
)

// Stages is a set of resolver stages, used to skip part of ApplyFilter when
// sorting or pagination is handled by another layer.
type Stages int

const (
	StageFilter Stages = 1 << iota
	StageSort
	StagePaginate
)

// NoStages excludes nothing
const NoStages Stages = 0

func ParseStages(stages ...string) (Stages, error) {
	var s Stages
	err := s.Add(stages...)
	return s, err
}

func (s *Stages) Set(stages Stages)     { *s |= stages }
func (s *Stages) Clear(stages Stages)   { *s &= ^stages }
func (s Stages) Has(stages Stages) bool { return s&stages != 0 }

func (s *Stages) Add(stages ...string) error {
	for _, stage := range stages {
		switch strings.ToLower(strings.TrimSpace(stage)) {
		case "filter":
			s.Set(StageFilter)
		case "sort":
			s.Set(StageSort)
		case "paginate":
			s.Set(StagePaginate)
		default:
			return fmt.Errorf("invalid stage: %s", stage)
		}
	}
	return nil
}
