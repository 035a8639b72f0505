package plane

import (
	"errors"
	"math"

	"StegoPlane/pkg/models"
	"StegoPlane/pkg/stego"
)

// Stats describes the bit distribution of one bit-plane
type Stats struct {
	BitIndex    int
	OnesRatio   float64
	Entropy     float64
	ChiSquare   float64 // against a uniform 0/1 split; near 0 means balanced
	HeaderValid bool
	MessageBits int
	// FillerEntropy is the entropy of the bits after the message, 0 when the header is invalid
	FillerEntropy float64
}

// Analyze computes the distribution of bit bitIdx across the grid and probes its length header
func Analyze(grid *models.PixelGrid, bitIdx int) (*Stats, error) {
	bits, err := stego.ExtractBitPlane(grid, bitIdx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{BitIndex: bitIdx}
	stats.OnesRatio = onesRatio(bits)
	stats.Entropy = calculateEntropy(1-stats.OnesRatio, stats.OnesRatio)
	stats.ChiSquare = chiSquare(bits)

	messageBits, err := stego.ParseHeader(bits)
	switch {
	case err == nil:
		stats.HeaderValid = true
		stats.MessageBits = messageBits
		filler := bits[stego.HeaderBits+messageBits:]
		ones := onesRatio(filler)
		stats.FillerEntropy = calculateEntropy(1-ones, ones)
	case errors.Is(err, stego.ErrCorruptHeader):
		// plane carries no message
	default:
		return nil, err
	}
	return stats, nil
}

// AnalyzeAll runs Analyze for every bit index from 0 to 7
func AnalyzeAll(grid *models.PixelGrid) ([]*Stats, error) {
	all := make([]*Stats, 0, 8)
	for bitIdx := 0; bitIdx <= 7; bitIdx++ {
		s, err := Analyze(grid, bitIdx)
		if err != nil {
			return nil, err
		}
		all = append(all, s)
	}
	return all, nil
}

// Confidence estimates how likely a valid header marks a real embedded message.
// A non-empty message followed by near perfectly balanced filler scores highest.
func (s *Stats) Confidence(sampleSize int) float64 {
	if !s.HeaderValid {
		return 0
	}

	score := 0.2
	if s.MessageBits > 0 {
		score += 0.3
	}
	if s.FillerEntropy > 0.99 {
		score += 0.4 // Random filler is almost perfectly balanced
	} else if s.FillerEntropy > 0.95 {
		score += 0.2
	}

	// Larger samples give higher confidence
	sampleConfidence := math.Min(float64(sampleSize)/10000.0, 1.0)
	score = score*0.9 + 0.1*sampleConfidence

	if score > 1.0 {
		return 1.0
	}
	return score
}

func onesRatio(bits []uint8) float64 {
	if len(bits) == 0 {
		return 0
	}
	ones := 0
	for _, b := range bits {
		ones += int(b)
	}
	return float64(ones) / float64(len(bits))
}

// chiSquare compares the zero and one counts of bits with an even split
func chiSquare(bits []uint8) float64 {
	total := len(bits)
	if total == 0 {
		return 0
	}
	ones := 0
	for _, b := range bits {
		ones += int(b)
	}
	zeros := total - ones

	expected := float64(total) / 2.0
	// Chi-square for 2 categories: ((O1 - E)^2 / E) + ((O2 - E)^2 / E)
	return math.Pow(float64(zeros)-expected, 2)/expected +
		math.Pow(float64(ones)-expected, 2)/expected
}

// calculateEntropy calculates Shannon entropy from probability distribution
func calculateEntropy(zeroProb, oneProb float64) float64 {
	// Avoid log(0) errors
	if zeroProb <= 0 || oneProb <= 0 {
		return 0
	}

	// Shannon entropy formula: -sum(p_i * log2(p_i))
	return -zeroProb*math.Log2(zeroProb) - oneProb*math.Log2(oneProb)
}
