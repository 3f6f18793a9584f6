package service

import (
	"context"
	"encoding/json"
	"time"

	"magazine-pro-api/internal/model"
	"magazine-pro-api/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// scanHistoryLimit bounds the per-user recent-scans list.
const scanHistoryLimit = 50

// ScanRecord is one remembered scan, shown as the operator's recent
// activity strip in the scanner view.
type ScanRecord struct {
	SKU      string            `json:"sku"`
	Name     string            `json:"name"`
	Action   model.AuditAction `json:"action"`
	Quantity int               `json:"quantity"`
	At       time.Time         `json:"at"`
}

// ScanHistory keeps a short per-user list of recent scans in Redis. It is
// a convenience cache, not part of the ledger: when Redis is not
// configured every call degrades to a no-op.
type ScanHistory struct {
	rdb *redis.Client
}

func NewScanHistory(rdb *redis.Client) *ScanHistory {
	return &ScanHistory{rdb: rdb}
}

func key(userEmail string) string {
	return "scan_history:" + userEmail
}

func (h *ScanHistory) Enabled() bool {
	return h != nil && h.rdb != nil
}

func (h *ScanHistory) Record(ctx context.Context, userEmail string, rec ScanRecord) {
	if !h.Enabled() || userEmail == "" {
		return
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return
	}
	pipe := h.rdb.Pipeline()
	pipe.LPush(ctx, key(userEmail), raw)
	pipe.LTrim(ctx, key(userEmail), 0, scanHistoryLimit-1)
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Logger.Warn().Err(err).Msg("failed to record scan history")
	}
}

func (h *ScanHistory) Recent(ctx context.Context, userEmail string, n int64) ([]ScanRecord, error) {
	if !h.Enabled() || userEmail == "" {
		return nil, nil
	}
	if n <= 0 || n > scanHistoryLimit {
		n = scanHistoryLimit
	}
	raws, err := h.rdb.LRange(ctx, key(userEmail), 0, n-1).Result()
	if err != nil {
		return nil, err
	}
	records := make([]ScanRecord, 0, len(raws))
	for _, raw := range raws {
		var rec ScanRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}
