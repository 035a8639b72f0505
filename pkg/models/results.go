package models

import (
	"time"
)

// EmbedResult describes a completed encode run
type EmbedResult struct {
	ImagePath    string        `json:"imagePath"`
	PayloadPath  string        `json:"payloadPath"`
	OutputPath   string        `json:"outputPath"`
	Format       string        `json:"format"`
	BitIndex     int           `json:"bitIndex"`
	PayloadBytes int           `json:"payloadBytes"`
	MessageBits  int           `json:"messageBits"` // header + payload bits
	Capacity     int           `json:"capacity"`    // bits available in the plane
	Duration     time.Duration `json:"duration"`
}

// Utilization is the share of the bit-plane taken by the message bitstream
func (r *EmbedResult) Utilization() float64 {
	if r.Capacity == 0 {
		return 0
	}
	return float64(r.MessageBits) / float64(r.Capacity)
}

// ExtractionResult contains the results of a decode run
type ExtractionResult struct {
	ImagePath     string        `json:"imagePath"`
	OutputPath    string        `json:"outputPath"`
	BitIndex      int           `json:"bitIndex"`
	ExtractedData []byte        `json:"extractedData"`
	DataSize      int           `json:"dataSize"`
	MimeType      string        `json:"mimeType"`
	Duration      time.Duration `json:"duration"`
}

// PlaneReport is the inspection outcome for one bit index
type PlaneReport struct {
	BitIndex    int     `json:"bitIndex"`
	HeaderValid bool    `json:"headerValid"`
	MessageBits int     `json:"messageBits"`
	OnesRatio   float64 `json:"onesRatio"` // share of 1 bits in the plane
	Entropy     float64 `json:"entropy"`   // Shannon entropy of the plane, 0..1
	ChiSquare   float64 `json:"chiSquare"`
}

// AnalysisResult contains the outcome of inspecting an image's bit-planes
type AnalysisResult struct {
	Filename         string        `json:"filename"`
	FileType         string        `json:"fileType"`
	Width            int           `json:"width"`
	Height           int           `json:"height"`
	Channels         int           `json:"channels"`
	CapacityBytes    int           `json:"capacityBytes"`
	Planes           []PlaneReport `json:"planes"`
	Findings         []Finding     `json:"findings"`
	AnalysisTime     time.Time     `json:"analysisTime"`
	AnalysisDuration time.Duration `json:"analysisDuration"`
}

// Finding represents a specific discovery during inspection
type Finding struct {
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence"` // 0.0-1.0
	Details     string  `json:"details"`
}

// AddFinding adds a finding to the analysis result
func (r *AnalysisResult) AddFinding(description string, confidence float64, details string) {
	r.Findings = append(r.Findings, Finding{
		Description: description,
		Confidence:  confidence,
		Details:     details,
	})
}

// CandidatePlanes returns the bit indices whose header decodes to a plausible message
func (r *AnalysisResult) CandidatePlanes() []int {
	var idx []int
	for _, p := range r.Planes {
		if p.HeaderValid {
			idx = append(idx, p.BitIndex)
		}
	}
	return idx
}
