package scoring

import (
	"fmt"
	"sort"
	"strings"

	"github.com/okian/nextalbum/internal/domain/model"
)

// SortKey selects which score orders the albums.
type SortKey string

// Supported sort keys. KeyNone keeps the order albums were first seen in.
const (
	KeyNone                         SortKey = ""
	KeyBayesianEstimate             SortKey = "bayesianEstimate"
	KeyEstimatedTrueValue           SortKey = "estimatedTrueValue"
	KeyBaseNWeightedRatingPlayCount SortKey = "baseNWeightedRatingPlayCount"
	KeyBaseNWeightedPlayCountRating SortKey = "baseNWeightedPlayCountRating"
)

// Direction is the sort direction.
type Direction string

// Supported directions.
const (
	Ascending  Direction = "ascending"
	Descending Direction = "descending"
)

// SortKeys lists every non-empty key.
func SortKeys() []SortKey {
	return []SortKey{
		KeyBayesianEstimate,
		KeyEstimatedTrueValue,
		KeyBaseNWeightedRatingPlayCount,
		KeyBaseNWeightedPlayCountRating,
	}
}

// ParseSortKey accepts the key names case-insensitively; empty means KeyNone.
func ParseSortKey(s string) (SortKey, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return KeyNone, nil
	}
	for _, k := range SortKeys() {
		if strings.EqualFold(s, string(k)) {
			return k, nil
		}
	}
	return KeyNone, fmt.Errorf("%w: %q", ErrUnknownSortKey, s)
}

// ParseDirection accepts asc/ascending and desc/descending; empty means Descending.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "desc", "descending":
		return Descending, nil
	case "asc", "ascending":
		return Ascending, nil
	default:
		return Descending, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
	}
}

// Value picks the score named by the key out of a bundle.
func (k SortKey) Value(b model.ScoreBundle) float64 {
	switch k {
	case KeyBayesianEstimate:
		return b.BayesianEstimate
	case KeyEstimatedTrueValue:
		return b.EstimatedTrueValue
	case KeyBaseNWeightedRatingPlayCount:
		return b.BaseNWeightedRatingPlayCount
	case KeyBaseNWeightedPlayCountRating:
		return b.BaseNWeightedPlayCountRating
	default:
		return 0
	}
}

// AlbumScore is the mean of the key over the album's tracks.
func AlbumScore(a *model.Album, k SortKey) float64 {
	if len(a.Tracks) == 0 {
		return 0
	}
	var sum float64
	for _, t := range a.Tracks {
		sum += k.Value(t.Score)
	}
	return sum / float64(len(a.Tracks))
}

// Order is the album ordering policy.
type Order struct {
	Key       SortKey
	Direction Direction
}

// ParseOrder builds an Order from its string form.
func ParseOrder(key, direction string) (Order, error) {
	k, err := ParseSortKey(key)
	if err != nil {
		return Order{}, err
	}
	d, err := ParseDirection(direction)
	if err != nil {
		return Order{}, err
	}
	return Order{Key: k, Direction: d}, nil
}

// IsZero reports whether the order keeps the first-seen sequence.
func (o Order) IsZero() bool {
	return o.Key == KeyNone
}

// Apply sorts albums in place. The sort is stable so equal scores keep their
// first-seen order.
func (o Order) Apply(albums []*model.Album) {
	if o.IsZero() || len(albums) < 2 {
		return
	}

	scores := make(map[*model.Album]float64, len(albums))
	for _, a := range albums {
		scores[a] = AlbumScore(a, o.Key)
	}
	sort.SliceStable(albums, func(i, j int) bool {
		if o.Direction == Ascending {
			return scores[albums[i]] < scores[albums[j]]
		}
		return scores[albums[i]] > scores[albums[j]]
	})
}
