package indicator

import "fmt"

type WeightedIndicator struct {
	Weight    float64
	Indicator Indicator
}

// EnsembleIndicator blends child signals by weight and confidence.
type EnsembleIndicator struct {
	Children []WeightedIndicator
}

func (i *EnsembleIndicator) GetSignal() (Signal, error) {
	var act float64
	var totalWeight float64
	for n, c := range i.Children {
		signal, err := c.Indicator.GetSignal()
		if err != nil {
			return Signal{}, fmt.Errorf("failed to get signal from child %d: %w", n, err)
		}

		act += float64(signal.Act) * signal.Confidence * c.Weight
		totalWeight += c.Weight
	}

	switch {
	case act > 0:
		return Signal{Act: ActBuy, Confidence: act / totalWeight}, nil
	case act < 0:
		return Signal{Act: ActSell, Confidence: -act / totalWeight}, nil
	default:
		return holdSignal, nil
	}
}
