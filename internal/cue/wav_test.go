package cue

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeWAV_Header(t *testing.T) {
	data := EncodeWAV(CompletionCue.Tones)

	require.Greater(t, len(data), 44)
	assert.Equal(t, "RIFF", string(data[0:4]))
	assert.Equal(t, "WAVE", string(data[8:12]))
	assert.Equal(t, "fmt ", string(data[12:16]))
	assert.Equal(t, "data", string(data[36:40]))

	assert.Equal(t, uint32(len(data)-8), binary.LittleEndian.Uint32(data[4:8]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(data[22:24]), "mono")
	assert.Equal(t, uint32(SampleRate), binary.LittleEndian.Uint32(data[24:28]))

	dataSize := binary.LittleEndian.Uint32(data[40:44])
	assert.Equal(t, uint32(len(data)-44), dataSize)
	expectedSamples := int(CompletionCue.Length().Seconds() * SampleRate)
	assert.InDelta(t, expectedSamples, int(dataSize/2), 3)
}

func TestEncodeWAV_StartsSilent(t *testing.T) {
	data := EncodeWAV([]Tone{{Frequency: 600, Duration: 50 * time.Millisecond}})

	first := int16(binary.LittleEndian.Uint16(data[44:46]))
	assert.Equal(t, int16(0), first)
}

func TestEncodeWAV_Empty(t *testing.T) {
	data := EncodeWAV(nil)
	assert.Len(t, data, 44)
}
