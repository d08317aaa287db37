package dataset

import (
	"fmt"

	"cyberpulse/pkg/contracts/domain"
)

// DimensionTable resolves a dimension to its presentation table. Industry
// and region map to their tables verbatim; size is the row-wise union of
// the small and medium/large enterprise tables because the survey splits
// size classes across two files. No deduplication is applied.
func (s *Store) DimensionTable(dim domain.Dimension) (domain.Table, error) {
	switch dim {
	case domain.DimensionIndustry:
		return s.tables[domain.DatasetIndustry], nil
	case domain.DimensionRegion:
		return s.tables[domain.DatasetRegion], nil
	case domain.DimensionSize:
		sizeS := s.tables[domain.DatasetSizeS]
		sizeML := s.tables[domain.DatasetSizeML]
		union := make(domain.Table, 0, len(sizeS)+len(sizeML))
		union = append(union, sizeS...)
		union = append(union, sizeML...)
		return union, nil
	default:
		return nil, fmt.Errorf("unknown dimension %q", dim)
	}
}

// Select filters the dimension table to one domain value, optionally
// appending the table's Sweden rows as a comparison series. The Sweden
// rows are appended even when the primary domain already is Sweden; the
// duplication is intentional so the comparison series always exists.
func Select(t domain.Table, domainValue string, compareSweden bool) domain.Table {
	selected := t.FilterDomain(domainValue)
	if !compareSweden {
		return selected
	}
	return append(selected, t.FilterDomain(domain.DomainSweden)...)
}

// DefaultDomain picks the preselected domain value for a dimension: the
// well-known "total" aggregate when the option list contains it, else the
// first value in sorted order.
func DefaultDomain(dim domain.Dimension, values []string) string {
	if len(values) == 0 {
		return ""
	}
	preferred := domain.DomainSweden
	if dim == domain.DimensionSize {
		preferred = domain.SizeTotalDomain
	}
	for _, v := range values {
		if v == preferred {
			return v
		}
	}
	return values[0]
}
