package cue

import (
	"bytes"
	"encoding/binary"
	"math"
	"time"
)

// SampleRate is the rate EncodeWAV renders at.
const SampleRate = 22050

const (
	amplitude = 0.3
	attack    = 10 * time.Millisecond
)

// EncodeWAV renders tones as a mono 16-bit PCM WAV file. Each tone gets a short
// linear attack and an exponential decay to avoid clicks.
func EncodeWAV(tones []Tone) []byte {
	var samples []int16
	for _, tone := range tones {
		samples = appendTone(samples, tone)
		samples = append(samples, make([]int16, sampleCount(tone.Gap))...)
	}

	dataSize := len(samples) * 2
	var buf bytes.Buffer
	buf.Grow(44 + dataSize)

	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1)) // mono
	_ = binary.Write(&buf, binary.LittleEndian, uint32(SampleRate))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(SampleRate*2))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(2))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(16))

	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(dataSize))
	_ = binary.Write(&buf, binary.LittleEndian, samples)

	return buf.Bytes()
}

func appendTone(samples []int16, tone Tone) []int16 {
	count := sampleCount(tone.Duration)
	attackSamples := sampleCount(attack)
	for i := 0; i < count; i++ {
		t := float64(i) / SampleRate
		gain := amplitude * math.Pow(0.01/amplitude, float64(i)/float64(count))
		if i < attackSamples {
			gain *= float64(i) / float64(attackSamples)
		}
		value := gain * math.Sin(2*math.Pi*tone.Frequency*t)
		samples = append(samples, int16(value*math.MaxInt16))
	}
	return samples
}

func sampleCount(duration time.Duration) int {
	if duration <= 0 {
		return 0
	}
	return int(duration.Seconds() * SampleRate)
}
