package redaction

import (
	"context"
	"regexp"
	"sync"

	"github.com/vulpes/redact/pkg/dictionary"
)

// capitalizedWord finds candidate dictionary tokens: a single capitalized
// word. Multi-word sequences are not matched as one candidate.
var capitalizedWord = regexp.MustCompile(`\b[A-Z][a-z]{1,30}\b`)

// membership is the lookup surface shared by bloom filters and term sets.
type membership interface {
	Contains(string) bool
}

// DictionaryDetector proposes spans for capitalized words found in an
// on-disk dictionary. The dictionary is loaded on first use, once, behind
// a sync.Once so concurrent fan-outs never load it twice; a load failure
// is remembered and returned from every later Detect call.
type DictionaryDetector struct {
	filterType FilterType
	confidence float64

	load    func() (membership, error)
	once    sync.Once
	set     membership
	loadErr error
}

// NewSurnameDetector returns a NAME detector backed by the bloom filter at
// path (VBLM format, typically built from a census surname list).
func NewSurnameDetector(path string) *DictionaryDetector {
	return &DictionaryDetector{
		filterType: FilterName,
		confidence: 0.55,
		load: func() (membership, error) {
			return dictionary.LoadBloomFilter(path)
		},
	}
}

// NewCityDetector returns an ADDRESS detector backed by the newline-
// delimited city list at path. City names alone are weak evidence of an
// address, so its confidence sits below the surname detector's.
func NewCityDetector(path string) *DictionaryDetector {
	return &DictionaryDetector{
		filterType: FilterAddress,
		confidence: 0.5,
		load: func() (membership, error) {
			return dictionary.LoadTermSet(path)
		},
	}
}

func (d *DictionaryDetector) FilterType() FilterType { return d.filterType }
func (d *DictionaryDetector) Priority() int          { return defaultPriority(d.filterType) }

// Detect scans for capitalized words present in the dictionary. The first
// call pays the disk load; later calls only read the immutable set.
func (d *DictionaryDetector) Detect(ctx context.Context, text string, cfg IdentifierConfig) ([]Span, error) {
	d.once.Do(func() {
		d.set, d.loadErr = d.load()
	})
	if d.loadErr != nil {
		return nil, d.loadErr
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	var spans []Span
	for _, m := range capitalizedWord.FindAllStringIndex(text, -1) {
		start, end := m[0], m[1]
		word := text[start:end]
		if !d.set.Contains(word) {
			continue
		}
		spans = append(spans, Span{
			FilterType:    d.filterType,
			Text:          word,
			OriginalValue: word,
			Start:         start,
			End:           end,
			Confidence:    d.confidence,
			Priority:      defaultPriority(d.filterType),
			Pattern:       "dictionary",
		})
	}
	return spans, nil
}
