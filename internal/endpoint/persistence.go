package endpoint

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// journalRecord is the on-disk shape of a Resolution, broadening the
// reference design's in-memory-only endpoint cache with a persisted
// journal so a restarted client does not have to re-resolve every asset
// it already knows about. Grounded on shared/mapdata/store.go's use of
// *gorm.DB as the teacher's own persistence layer.
type journalRecord struct {
	EndpointURL     string `gorm:"primaryKey"`
	Kind            string
	TargetURL       string
	BearerToken     string
	AttributionsRaw string
	ResolvedAtUnix  int64
}

// journal is the optional sqlite-backed persistence layer for resolved
// endpoint records.
type journal struct {
	db *gorm.DB
}

func openJournal(path string) (*journal, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open endpoint journal: %w", err)
	}
	if err := db.AutoMigrate(&journalRecord{}); err != nil {
		return nil, fmt.Errorf("migrate endpoint journal: %w", err)
	}
	return &journal{db: db}, nil
}

func (j *journal) Load(endpointURL string) (Resolution, bool) {
	var rec journalRecord
	if err := j.db.First(&rec, "endpoint_url = ?", endpointURL).Error; err != nil {
		return Resolution{}, false
	}

	kind, ok := parseKind(rec.Kind)
	if !ok {
		return Resolution{}, false
	}

	var attributions []Attribution
	_ = json.Unmarshal([]byte(rec.AttributionsRaw), &attributions)

	return Resolution{
		Kind:         kind,
		URL:          rec.TargetURL,
		BearerToken:  rec.BearerToken,
		Attributions: attributions,
		ResolvedAt:   time.Unix(rec.ResolvedAtUnix, 0),
	}, true
}

func (j *journal) Save(endpointURL string, r Resolution) error {
	kindStr := "TERRAIN"
	if r.Kind == ThreeDTiles {
		kindStr = "3DTILES"
	}
	attributionsRaw, err := json.Marshal(r.Attributions)
	if err != nil {
		return fmt.Errorf("marshal attributions: %w", err)
	}

	rec := journalRecord{
		EndpointURL:     endpointURL,
		Kind:            kindStr,
		TargetURL:       r.URL,
		BearerToken:     r.BearerToken,
		AttributionsRaw: string(attributionsRaw),
		ResolvedAtUnix:  r.ResolvedAt.Unix(),
	}
	return j.db.Save(&rec).Error
}
