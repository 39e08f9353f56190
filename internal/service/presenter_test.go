package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"music-svc/internal/domain"
)

// TestFormatDuration 测试时长格式化
func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name    string
		seconds float64
		want    string
	}{
		{"零值", 0, "0m 0s"},
		{"不足一分钟", 45, "0m 45s"},
		{"分秒", 125, "2m 5s"},
		{"整小时", 3600, "1h 0m"},
		{"时分（丢弃秒）", 3700, "1h 1m"},
		{"多小时", 7325, "2h 2m"},
		{"小数秒截断", 59.9, "0m 59s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDuration(tt.seconds))
		})
	}
}

// TestNewHistoryEntry 测试实体到响应形态的转换
func TestNewHistoryEntry(t *testing.T) {
	now := time.Now()
	duration := 240.0
	h := &domain.ListeningHistory{
		ID:                    "id-1",
		SongID:                testSongID,
		PlayCount:             5,
		TotalListenedDuration: 130,
		LastPosition:          220,
		SongDuration:          &duration,
		Completed:             true,
		LastListenedAt:        &now,
		Song:                  testSong(testSongID),
	}

	entry := NewHistoryEntry(h)

	assert.Equal(t, "id-1", entry.ID)
	assert.Equal(t, testSongID, entry.SongID)
	assert.Equal(t, int64(5), entry.PlayCount)
	assert.Equal(t, "2m 10s", entry.TotalListenedFormatted)
	assert.True(t, entry.Completed)
	assert.NotNil(t, entry.Song)
	assert.Equal(t, "Test Song", entry.Song.Title)
}

// TestNewHistoryEntry_NoSong 测试未挂载歌曲时摘要为nil
func TestNewHistoryEntry_NoSong(t *testing.T) {
	entry := NewHistoryEntry(&domain.ListeningHistory{SongID: testSongID})

	assert.Nil(t, entry.Song)
	assert.Equal(t, "0m 0s", entry.TotalListenedFormatted)
}

// TestEmptyHistoryEntry 测试零值形态
func TestEmptyHistoryEntry(t *testing.T) {
	entry := emptyHistoryEntry(testSongID)

	assert.Equal(t, testSongID, entry.SongID)
	assert.Equal(t, int64(0), entry.PlayCount)
	assert.Equal(t, 0.0, entry.LastPosition)
	assert.Nil(t, entry.SongDuration)
	assert.False(t, entry.Completed)
	assert.Nil(t, entry.LastListenedAt)
	assert.Equal(t, "0m 0s", entry.TotalListenedFormatted)
}
