// Package audio normalizes voice-note audio for transcription.
//
// Telegram delivers voice notes as Ogg Opus. Transcription wants 16kHz
// mono PCM WAV, so Normalize decodes the Opus stream at its native
// 48kHz, downsamples, and wraps the result in a WAV header.
package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"gopkg.in/hraban/opus.v2"
)

const (
	// opusRate is the Opus decode rate. Ogg Opus always decodes at 48kHz.
	opusRate = 48000

	// TargetRate is the output sample rate expected by transcription.
	TargetRate = 16000
)

// ErrEmptyInput is returned when there are no audio bytes to decode.
var ErrEmptyInput = errors.New("audio: empty input")

// Normalize decodes an Ogg Opus voice note and returns a 16kHz mono
// PCM16 WAV.
func Normalize(oggOpus []byte) ([]byte, error) {
	if len(oggOpus) == 0 {
		return nil, ErrEmptyInput
	}

	pcm, err := decodeOggOpus(bytes.NewReader(oggOpus))
	if err != nil {
		return nil, err
	}

	pcm = resampleLinear(pcm, opusRate, TargetRate)
	return encodeWAV(pcm, TargetRate), nil
}

// decodeOggOpus reads a full Ogg Opus stream into mono int16 samples.
func decodeOggOpus(r io.Reader) ([]int16, error) {
	stream, err := opus.NewStream(r)
	if err != nil {
		return nil, fmt.Errorf("audio: open opus stream: %w", err)
	}
	defer stream.Close()

	var pcm []int16
	// 120ms at 48kHz is the largest Opus frame.
	buf := make([]int16, 5760)
	for {
		n, err := stream.Read(buf)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("audio: decode opus: %w", err)
		}
		pcm = append(pcm, buf[:n]...)
	}
	if len(pcm) == 0 {
		return nil, ErrEmptyInput
	}
	return pcm, nil
}

// resampleLinear downsamples by linear interpolation.
func resampleLinear(samples []int16, srIn, srOut int) []int16 {
	if srIn == srOut || len(samples) == 0 {
		return samples
	}
	nOut := int(math.Round(float64(len(samples)) * float64(srOut) / float64(srIn)))
	if nOut <= 1 {
		return nil
	}
	out := make([]int16, nOut)
	for i := range out {
		t := float64(i) / float64(nOut-1) * float64(len(samples)-1)
		idx := int(t)
		frac := t - float64(idx)
		if idx >= len(samples)-1 {
			out[i] = samples[len(samples)-1]
		} else {
			v := float64(samples[idx])*(1-frac) + float64(samples[idx+1])*frac
			out[i] = int16(math.Round(v))
		}
	}
	return out
}

// encodeWAV wraps mono PCM16 samples in a RIFF/WAVE header.
func encodeWAV(pcm []int16, sampleRate int) []byte {
	const (
		channels      = 1
		bitsPerSample = 16
	)
	dataLen := len(pcm) * 2
	byteRate := sampleRate * channels * bitsPerSample / 8
	blockAlign := channels * bitsPerSample / 8

	var buf bytes.Buffer
	buf.Grow(44 + dataLen)

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataLen))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(bitsPerSample))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataLen))
	binary.Write(&buf, binary.LittleEndian, pcm)

	return buf.Bytes()
}
