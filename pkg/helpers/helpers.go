// Package helpers holds the display formatting shared by stream entries:
// human readable sizes and keyword based quality tags.
package helpers

import (
	"math"
	"strconv"
	"strings"
)

const (
	SizeIcon    = "💾"
	QualityIcon = "🌟"
)

var sizeUnits = []string{"B", "KB", "MB", "GB"}

type qualityTier struct {
	tag      string
	keywords []string
}

// Tiers are tested in order; the first tier with a matching keyword wins.
var qualityTiers = []qualityTier{
	{tag: "4K", keywords: []string{"2160", "4k", "uhd", "2160p", "2160i"}},
	{tag: "FHD", keywords: []string{"1080", "fhd", "full hd", "1080p", "1080i"}},
	{tag: "HD", keywords: []string{"720", "hd", "720p", "720i"}},
	{tag: "SD", keywords: []string{"480p", "sd", "480i", "360p"}},
	{tag: "CUSTOMQUALITY", keywords: []string{"custom1", "custom2", "custom3"}},
}

// FormatSize renders a byte count with the largest unit that keeps the value
// under 1024, stopping at GB, rounded to two decimals.
func FormatSize(size int64) string {
	value := float64(size)
	if value < 0 {
		value = 0
	}

	unit := 0
	for value >= 1024 && unit < len(sizeUnits)-1 {
		value /= 1024
		unit++
	}

	rounded := math.Round(value*100) / 100
	return strconv.FormatFloat(rounded, 'f', -1, 64) + " " + sizeUnits[unit]
}

// SizeLabel is FormatSize prefixed with the size icon.
func SizeLabel(size int64) string {
	return SizeIcon + " " + FormatSize(size)
}

// QualityTier returns the quality tier of name, or "" when no keyword matches.
func QualityTier(name string) string {
	lower := strings.ToLower(name)
	if lower == "" {
		return ""
	}

	for _, tier := range qualityTiers {
		for _, keyword := range tier.keywords {
			if strings.Contains(lower, keyword) {
				return tier.tag
			}
		}
	}
	return ""
}

// QualityLabel is QualityTier prefixed with the quality icon, or "" when unknown.
func QualityLabel(name string) string {
	tier := QualityTier(name)
	if tier == "" {
		return ""
	}
	return QualityIcon + tier
}
