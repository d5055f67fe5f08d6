package sinks

import (
	"context"
	"time"

	"gorm.io/gorm"
	"k8s.io/klog/v2"

	"github.com/AIS-Hub/AISHub/internal/ais"
	"github.com/AIS-Hub/AISHub/internal/stream"
)

// MessageRecord is the row persisted per decoded message, styled after
// the teacher's gorm model conventions (internal/db/models.Call):
// plain exported fields, `gorm:"primarykey"`, minimal json tags needed
// for the HTTP API to reuse the same struct.
type MessageRecord struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	RxTime     time.Time `json:"rxtime"`
	MMSI       uint32    `gorm:"index" json:"mmsi"`
	Type       int       `json:"type"`
	Channel    string    `json:"channel"`
	Lat        float64   `json:"lat"`
	Lon        float64   `json:"lon"`
	ShipName   string    `json:"shipname"`
	NMEA       string    `json:"nmea"`
}

// DBSink persists every message that passes its filter to a
// gorm-backed PostgreSQL/MySQL table (Domain Stack: gorm.io/gorm +
// gorm.io/driver/postgres + gorm.io/driver/mysql, grounded on the
// teacher's internal/db package's use of the same stack for its own
// models).
type DBSink struct {
	db     *gorm.DB
	format Format
	group  stream.GroupMask
	filter *Filter
}

// NewDBSink migrates MessageRecord into db and returns a sink that
// inserts one row per message.
func NewDBSink(db *gorm.DB, format Format, group stream.GroupMask) (*DBSink, error) {
	if err := db.AutoMigrate(&MessageRecord{}); err != nil {
		return nil, err
	}
	return &DBSink{db: db, format: format, group: group}, nil
}

func (s *DBSink) SetFilter(f *Filter) { s.filter = f }

func (s *DBSink) GroupMask() stream.GroupMask { return s.group }
func (s *DBSink) Format() Format               { return s.format }

func (s *DBSink) Send(ctx context.Context, m *ais.Message, d ais.Decoded, tag *stream.TAG) error {
	if !s.filter.Allow(m) {
		return nil
	}
	rec := MessageRecord{
		RxTime:  time.Unix(m.RxTimeUnix, 0).UTC(),
		MMSI:    m.MMSI,
		Type:    m.Type,
		Channel: string(m.Channel),
	}
	if lat, lon, ok := d.Position3(); ok {
		rec.Lat, rec.Lon = lat, lon
	}
	if tag != nil {
		rec.ShipName = tag.ShipName
	}
	if len(m.NMEA) > 0 {
		rec.NMEA = m.NMEA[0]
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		klog.Errorf("dbsink: insert failed: %v", err)
		return err
	}
	return nil
}

func (s *DBSink) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
