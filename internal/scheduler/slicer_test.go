package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/studyplan-api/internal/models"
)

func TestSliceSlotStandardDay(t *testing.T) {
	slot := models.FreeSlot{Start: day(9, 0), End: day(17, 0)}

	blocks := SliceSlot(slot, 50*time.Minute, 10*time.Minute)

	require.Len(t, blocks, 8)
	assert.Equal(t, day(9, 0), blocks[0].Start)
	assert.Equal(t, day(9, 50), blocks[0].End)
	assert.Equal(t, day(16, 0), blocks[7].Start)
	assert.Equal(t, day(16, 50), blocks[7].End)
	for i := 1; i < len(blocks); i++ {
		assert.Equal(t, 10*time.Minute, blocks[i].Start.Sub(blocks[i-1].End))
	}
}

func TestSliceSlotExactFit(t *testing.T) {
	slot := models.FreeSlot{Start: day(9, 0), End: day(9, 50)}

	blocks := SliceSlot(slot, 50*time.Minute, 10*time.Minute)

	require.Len(t, blocks, 1)
	assert.Equal(t, slot.Start, blocks[0].Start)
	assert.Equal(t, slot.End, blocks[0].End)
}

func TestSliceSlotTooShort(t *testing.T) {
	slot := models.FreeSlot{Start: day(9, 0), End: day(9, 40)}

	blocks := SliceSlot(slot, 50*time.Minute, 10*time.Minute)

	assert.Empty(t, blocks)
}

func TestSliceSlotNoBreak(t *testing.T) {
	slot := models.FreeSlot{Start: day(9, 0), End: day(11, 0)}

	blocks := SliceSlot(slot, 60*time.Minute, 0)

	require.Len(t, blocks, 2)
	assert.Equal(t, day(10, 0), blocks[1].Start)
}

func TestSliceSlotInvalidDurations(t *testing.T) {
	slot := models.FreeSlot{Start: day(9, 0), End: day(17, 0)}

	assert.Empty(t, SliceSlot(slot, 0, 10*time.Minute))

	blocks := SliceSlot(slot, 50*time.Minute, -5*time.Minute)
	require.NotEmpty(t, blocks)
	assert.Equal(t, day(9, 50), blocks[1].Start)
}
