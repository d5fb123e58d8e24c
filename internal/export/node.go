package export

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"servenet/internal/utils"
	"servenet/pkg/types"
)

const (
	verifiedScore   = 95
	blockHeightBase = 5_000_000
	blockHeightSpan = 1_000_000
)

type NodeDocument struct {
	NodeID     string         `json:"nodeId"`
	Metadata   NodeMetadata   `json:"metadata"`
	SensorData SensorReadings `json:"sensorData"`
	Validation NodeValidation `json:"validation"`
	Blockchain NodeChainInfo  `json:"blockchain"`
}

type NodeMetadata struct {
	Title     string `json:"title"`
	Category  string `json:"category"`
	Location  string `json:"location"`
	Timestamp string `json:"timestamp"`
}

type SensorReadings struct {
	Temperature  *float64 `json:"temperature"`
	Humidity     *float64 `json:"humidity"`
	SoilMoisture *float64 `json:"soilMoisture"`
}

type NodeValidation struct {
	Status types.SubmissionStatus `json:"status"`
	Score  int                    `json:"score"`
}

// NodeChainInfo is decorative; nothing is ever written to a chain.
type NodeChainInfo struct {
	TxHash      string `json:"txHash"`
	BlockHeight int    `json:"blockHeight"`
}

func BuildNodeDocument(sub types.Submission, r utils.IntSource) NodeDocument {
	score := 0
	if sub.Status == types.SubmissionStatusVerified {
		score = verifiedScore
	}

	return NodeDocument{
		NodeID: sub.ID,
		Metadata: NodeMetadata{
			Title:     sub.Title,
			Category:  sub.Category,
			Location:  utils.StringOr(sub.Location, types.DefaultSubmissionLocation),
			Timestamp: sub.SubmittedAt.UTC().Format(time.RFC3339),
		},
		SensorData: Readings(sub),
		Validation: NodeValidation{Status: sub.Status, Score: score},
		Blockchain: NodeChainInfo{
			TxHash:      "0x" + utils.HexString(r, 8) + "...",
			BlockHeight: blockHeightBase + r.IntN(blockHeightSpan),
		},
	}
}

// NodeJSON renders the node document offered for copy and download.
func NodeJSON(sub types.Submission, r utils.IntSource) ([]byte, error) {
	data, err := json.MarshalIndent(BuildNodeDocument(sub, r), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal node %s: %w", sub.ID, err)
	}
	return data, nil
}

func NodeFilename(id string) string {
	return fmt.Sprintf("%s-node.json", id)
}

func Readings(sub types.Submission) SensorReadings {
	return SensorReadings{
		Temperature:  parseReading(sub.Temperature),
		Humidity:     parseReading(sub.Humidity),
		SoilMoisture: parseReading(sub.SoilMoisture),
	}
}

// parseReading returns nil for empty, non-numeric or non-finite input.
func parseReading(v string) *float64 {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
